package api

import (
	"time"

	"github.com/hexirules/hexirules/hex"
	"github.com/hexirules/hexirules/service"
)

// SessionCreateRequest represents a request to create a new session
type SessionCreateRequest struct {
	Seed        *int64 `json:"seed,omitempty"`        // RNG seed for new worlds (default: 0)
	HistorySize int    `json:"historySize,omitempty"` // History ring capacity (default: 256)
}

// SessionCreateResponse represents the response from creating a session
type SessionCreateResponse struct {
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionStatusResponse represents the current status of a session
type SessionStatusResponse struct {
	SessionID  string    `json:"sessionId"`
	WorldCount int       `json:"worldCount"`
	Current    string    `json:"current,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// WorldCreateRequest represents a request to create a world
type WorldCreateRequest struct {
	Name   string `json:"name"`
	Radius int    `json:"radius"`
}

// WorldRenameRequest represents a request to rename a world
type WorldRenameRequest struct {
	NewName string `json:"newName"`
}

// WorldInfoResponse represents one world's metadata
type WorldInfoResponse struct {
	Name        string `json:"name"`
	Radius      int    `json:"radius"`
	ActiveCount int    `json:"activeCount"`
}

// WorldListResponse represents the worlds of a session
type WorldListResponse struct {
	Worlds  []WorldInfoResponse `json:"worlds"`
	Current string              `json:"current,omitempty"`
}

// RulesRequest represents a request to replace the rule text
type RulesRequest struct {
	Text string `json:"text"`
}

// RulesResponse represents the current rule set
type RulesResponse struct {
	Text       string `json:"text"`
	RuleCount  int    `json:"ruleCount"`  // concrete rules after expansion
	GroupCount int    `json:"groupCount"` // macro groups
}

// CellModel represents one cell on the wire
type CellModel struct {
	Q         int    `json:"q"`
	R         int    `json:"r"`
	State     string `json:"state"`
	Direction *int   `json:"direction"`
}

// CellsResponse represents the non-empty cells of a world
type CellsResponse struct {
	Cells []CellModel `json:"cells"`
}

// RandomizeRequest represents a request to randomize the grid
type RandomizeRequest struct {
	States      []string `json:"states"`
	Probability float64  `json:"probability"`
}

// SeedRequest represents a request to reseed the world's RNG
type SeedRequest struct {
	Seed int64 `json:"seed"`
}

// StepResponse represents the result of one step
type StepResponse struct {
	Generation  int      `json:"generation"`
	ActiveCount int      `json:"activeCount"`
	Log         []string `json:"log"`
}

// HistoryEntryModel represents one history entry
type HistoryEntryModel struct {
	Index       int `json:"index"`
	ActiveCount int `json:"activeCount"`
}

// HistoryResponse represents a world's history ring
type HistoryResponse struct {
	Entries []HistoryEntryModel `json:"entries"`
	Cursor  int                 `json:"cursor"`
}

// GoRequest represents a request to move the history cursor
type GoRequest struct {
	Index int `json:"index"`
}

// LogResponse represents a recorded step log
type LogResponse struct {
	Index int      `json:"index"`
	Log   []string `json:"log"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// SuccessResponse represents a simple success response
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ToWorldInfoResponse converts service metadata to the API model
func ToWorldInfoResponse(info service.WorldInfo) WorldInfoResponse {
	return WorldInfoResponse{
		Name:        info.Name,
		Radius:      info.Radius,
		ActiveCount: info.ActiveCount,
	}
}

// ToCellModel converts a cell to the API model
func ToCellModel(q, r int, cell hex.Cell) CellModel {
	m := CellModel{Q: q, R: r, State: cell.State}
	if cell.HasDir() {
		d := cell.Dir
		m.Direction = &d
	}
	return m
}
