package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/hexirules/hexirules/engine"
	"github.com/hexirules/hexirules/service"
)

// handleCreateSession handles POST /api/v1/session
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req SessionCreateRequest
	if r.ContentLength > 0 {
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	session, err := s.sessions.CreateSession(req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to create session: %v", err))
		return
	}

	writeJSON(w, http.StatusCreated, SessionCreateResponse{
		SessionID: session.ID,
		CreatedAt: session.CreatedAt,
	})
}

// handleListSessions handles GET /api/v1/session
func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	ids := s.sessions.ListSessions()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": ids,
		"count":    len(ids),
	})
}

// handleGetSessionStatus handles GET /api/v1/session/{id}
func (s *Server) handleGetSessionStatus(w http.ResponseWriter, r *http.Request, session *Session) {
	current, _ := session.Service.CurrentName()

	writeJSON(w, http.StatusOK, SessionStatusResponse{
		SessionID:  session.ID,
		WorldCount: len(session.Service.ListWorlds()),
		Current:    current,
		CreatedAt:  session.CreatedAt,
	})
}

// handleDestroySession handles DELETE /api/v1/session/{id}
func (s *Server) handleDestroySession(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := s.sessions.DestroySession(sessionID); err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{
		Success: true,
		Message: "Session destroyed",
	})
}

// handleListWorlds handles GET /api/v1/session/{id}/worlds
func (s *Server) handleListWorlds(w http.ResponseWriter, r *http.Request, session *Session) {
	infos := session.Service.ListWorlds()
	worlds := make([]WorldInfoResponse, len(infos))
	for i, info := range infos {
		worlds[i] = ToWorldInfoResponse(info)
	}

	current, _ := session.Service.CurrentName()
	writeJSON(w, http.StatusOK, WorldListResponse{Worlds: worlds, Current: current})
}

// handleCreateWorld handles POST /api/v1/session/{id}/worlds
func (s *Server) handleCreateWorld(w http.ResponseWriter, r *http.Request, session *Session) {
	var req WorldCreateRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := session.Service.CreateWorld(req.Name, req.Radius); err != nil {
		writeServiceError(w, err)
		return
	}

	s.broadcaster.BroadcastWorld(session.ID, "created", req.Name)
	writeJSON(w, http.StatusCreated, SuccessResponse{Success: true})
}

// handleWorldInfo handles GET /api/v1/session/{id}/worlds/{name}
func (s *Server) handleWorldInfo(w http.ResponseWriter, r *http.Request, session *Session, name string) {
	for _, info := range session.Service.ListWorlds() {
		if info.Name == name {
			writeJSON(w, http.StatusOK, ToWorldInfoResponse(info))
			return
		}
	}
	writeError(w, http.StatusNotFound, fmt.Sprintf("World %q not found", name))
}

// handleDeleteWorld handles DELETE /api/v1/session/{id}/worlds/{name}
func (s *Server) handleDeleteWorld(w http.ResponseWriter, r *http.Request, session *Session, name string) {
	if err := session.Service.DeleteWorld(name); err != nil {
		writeServiceError(w, err)
		return
	}

	s.broadcaster.BroadcastWorld(session.ID, "deleted", name)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleRenameWorld handles POST /api/v1/session/{id}/worlds/{name}/rename
func (s *Server) handleRenameWorld(w http.ResponseWriter, r *http.Request, session *Session, name string) {
	var req WorldRenameRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := session.Service.RenameWorld(name, req.NewName); err != nil {
		writeServiceError(w, err)
		return
	}

	s.broadcaster.BroadcastWorld(session.ID, "renamed", req.NewName)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleSelectWorld handles POST /api/v1/session/{id}/worlds/{name}/select
func (s *Server) handleSelectWorld(w http.ResponseWriter, r *http.Request, session *Session, name string) {
	if err := session.Service.SelectWorld(name); err != nil {
		writeServiceError(w, err)
		return
	}

	s.broadcaster.BroadcastWorld(session.ID, "selected", name)
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleRules handles GET and PUT /api/v1/session/{id}/rules
func (s *Server) handleRules(w http.ResponseWriter, r *http.Request, session *Session) {
	switch r.Method {
	case http.MethodGet:
		text, err := session.Service.RulesText()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		stats, err := session.Service.RuleStats()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		count := 0
		for _, n := range stats {
			count += n
		}
		writeJSON(w, http.StatusOK, RulesResponse{
			Text:       text,
			RuleCount:  count,
			GroupCount: len(stats),
		})

	case http.MethodPut, http.MethodPost:
		var req RulesRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := session.Service.SetRules(req.Text); err != nil {
			s.broadcaster.BroadcastError(session.ID, err.Error())
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleCells handles GET and POST /api/v1/session/{id}/cells
func (s *Server) handleCells(w http.ResponseWriter, r *http.Request, session *Session) {
	switch r.Method {
	case http.MethodGet:
		cells, err := session.Service.Cells()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		models := make([]CellModel, len(cells))
		for i, c := range cells {
			models[i] = CellModel{Q: c.Q, R: c.R, State: c.State, Direction: c.Direction}
		}
		writeJSON(w, http.StatusOK, CellsResponse{Cells: models})

	case http.MethodPost:
		var req CellModel
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		dir := 0
		if req.Direction != nil {
			dir = *req.Direction
		}
		if err := session.Service.SetCell(req.Q, req.R, req.State, dir); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleClear handles POST /api/v1/session/{id}/clear
func (s *Server) handleClear(w http.ResponseWriter, r *http.Request, session *Session) {
	if err := session.Service.ClearAll(); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleRandomize handles POST /api/v1/session/{id}/randomize
func (s *Server) handleRandomize(w http.ResponseWriter, r *http.Request, session *Session) {
	var req RandomizeRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := session.Service.Randomize(req.States, req.Probability); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleSeed handles POST /api/v1/session/{id}/seed
func (s *Server) handleSeed(w http.ResponseWriter, r *http.Request, session *Session) {
	var req SeedRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := session.Service.Reseed(req.Seed); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleStep handles POST /api/v1/session/{id}/step
func (s *Server) handleStep(w http.ResponseWriter, r *http.Request, session *Session) {
	log, err := session.Service.Step()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	info, err := session.Service.CurrentInfo()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	generation, _ := session.Service.Generation()

	s.broadcaster.BroadcastStep(session.ID, info.Name, generation, info.ActiveCount, log)

	writeJSON(w, http.StatusOK, StepResponse{
		Generation:  generation,
		ActiveCount: info.ActiveCount,
		Log:         log,
	})
}

// handleHistory handles GET /api/v1/session/{id}/history
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request, session *Session) {
	entries, err := session.Service.History()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	cursor, err := session.Service.HistoryCursor()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	models := make([]HistoryEntryModel, len(entries))
	for i, e := range entries {
		models[i] = HistoryEntryModel{Index: e.Index, ActiveCount: e.ActiveCount}
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Entries: models, Cursor: cursor})
}

// handleHistoryMove handles POST /api/v1/session/{id}/history/{prev|next|go}
func (s *Server) handleHistoryMove(w http.ResponseWriter, r *http.Request, session *Session, action string) {
	var err error
	switch action {
	case "prev":
		err = session.Service.Prev()
	case "next":
		err = session.Service.Next()
	case "go":
		var req GoRequest
		if jsonErr := readJSON(r, &req); jsonErr != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		err = session.Service.Go(req.Index)
	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown history action %q", action))
		return
	}

	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// handleHistoryEntry handles GET /api/v1/session/{id}/history/{index}/{snapshot|log}
func (s *Server) handleHistoryEntry(w http.ResponseWriter, r *http.Request, session *Session, indexStr, what string) {
	index, err := strconv.Atoi(indexStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid history index %q", indexStr))
		return
	}

	switch what {
	case "snapshot":
		snap, err := session.Service.SnapshotAt(index)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)

	case "log":
		log, err := session.Service.LogAt(index)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, LogResponse{Index: index, Log: log})

	default:
		writeError(w, http.StatusNotFound, fmt.Sprintf("Unknown history resource %q", what))
	}
}

// handleSnapshot handles GET and POST /api/v1/session/{id}/snapshot
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request, session *Session) {
	switch r.Method {
	case http.MethodGet:
		snap, err := session.Service.Snapshot()
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)

	case http.MethodPost:
		var snap engine.Snapshot
		if err := readJSON(r, &snap); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := session.Service.Restore(&snap); err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true})

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// writeServiceError maps service and engine errors onto HTTP statuses
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrWorldNotFound), errors.Is(err, service.ErrNoWorldSelected),
		errors.Is(err, engine.ErrBadIndex):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrNameConflict):
		writeError(w, http.StatusConflict, err.Error())
	default:
		writeError(w, http.StatusBadRequest, err.Error())
	}
}
