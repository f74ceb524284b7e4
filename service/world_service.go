// Package service exposes the engine operations an embedding consumes:
// a mutex-guarded registry of named worlds with cell, rule, step and
// history operations on the selected world.
package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hexirules/hexirules/engine"
	"github.com/hexirules/hexirules/hex"
)

var (
	// ErrWorldNotFound is returned when a named world does not exist.
	ErrWorldNotFound = errors.New("world not found")
	// ErrNameConflict is returned when creating or renaming to a name
	// that already exists.
	ErrNameConflict = errors.New("world name already exists")
	// ErrNoWorldSelected is returned by world operations before any
	// world has been selected.
	ErrNoWorldSelected = errors.New("no world selected")
	// ErrInvalidName is returned for empty world names.
	ErrInvalidName = errors.New("world name must not be empty")
)

// WorldInfo is the metadata of one named world.
type WorldInfo struct {
	Name        string
	Radius      int
	ActiveCount int
}

// HistoryInfo describes one history entry of the selected world.
type HistoryInfo struct {
	Index       int
	ActiveCount int
}

// WorldService manages the named worlds of one session. Worlds are
// single-threaded, so every operation holds the service mutex for its
// full duration; no operation suspends mid-way.
type WorldService struct {
	mu          sync.Mutex
	worlds      map[string]*engine.World
	current     string
	seed        int64
	historySize int
}

// NewWorldService creates an empty registry. New worlds are seeded with
// the given seed and use the given history capacity.
func NewWorldService(seed int64, historySize int) *WorldService {
	if historySize < 1 {
		historySize = engine.DefaultHistorySize
	}
	return &WorldService{
		worlds:      make(map[string]*engine.World),
		seed:        seed,
		historySize: historySize,
	}
}

// CreateWorld creates a world under a unique name and selects it.
func (s *WorldService) CreateWorld(name string, radius int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name == "" {
		return ErrInvalidName
	}
	if _, exists := s.worlds[name]; exists {
		return fmt.Errorf("%w: %q", ErrNameConflict, name)
	}
	if radius < 1 {
		return fmt.Errorf("invalid radius %d", radius)
	}

	s.worlds[name] = engine.NewWorldWithHistory(radius, s.seed, s.historySize)
	s.current = name
	return nil
}

// ListWorlds returns the metadata of every world, sorted by name.
func (s *WorldService) ListWorlds() []WorldInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	infos := make([]WorldInfo, 0, len(s.worlds))
	for name, w := range s.worlds {
		infos = append(infos, WorldInfo{
			Name:        name,
			Radius:      w.Radius(),
			ActiveCount: w.ActiveCount(),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// RenameWorld renames a world. The new name must be unused.
func (s *WorldService) RenameWorld(oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if newName == "" {
		return ErrInvalidName
	}
	w, exists := s.worlds[oldName]
	if !exists {
		return fmt.Errorf("%w: %q", ErrWorldNotFound, oldName)
	}
	if _, taken := s.worlds[newName]; taken {
		return fmt.Errorf("%w: %q", ErrNameConflict, newName)
	}

	delete(s.worlds, oldName)
	s.worlds[newName] = w
	if s.current == oldName {
		s.current = newName
	}
	return nil
}

// DeleteWorld removes a world by name.
func (s *WorldService) DeleteWorld(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.worlds[name]; !exists {
		return fmt.Errorf("%w: %q", ErrWorldNotFound, name)
	}
	delete(s.worlds, name)
	if s.current == name {
		s.current = ""
	}
	return nil
}

// SelectWorld makes a world current.
func (s *WorldService) SelectWorld(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.worlds[name]; !exists {
		return fmt.Errorf("%w: %q", ErrWorldNotFound, name)
	}
	s.current = name
	return nil
}

// CurrentName returns the selected world's name.
func (s *WorldService) CurrentName() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == "" {
		return "", ErrNoWorldSelected
	}
	return s.current, nil
}

// CurrentInfo returns the selected world's metadata.
func (s *WorldService) CurrentInfo() (WorldInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return WorldInfo{}, err
	}
	return WorldInfo{Name: s.current, Radius: w.Radius(), ActiveCount: w.ActiveCount()}, nil
}

// selected returns the current world. Callers hold the mutex.
func (s *WorldService) selected() (*engine.World, error) {
	if s.current == "" {
		return nil, ErrNoWorldSelected
	}
	return s.worlds[s.current], nil
}

// SetRules replaces the selected world's rule text. On a parse error the
// previous rule set is retained and the error returned.
func (s *WorldService) SetRules(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return err
	}
	return w.SetRules(text)
}

// RulesText returns the selected world's rule source text.
func (s *WorldService) RulesText() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return "", err
	}
	return w.RulesText(), nil
}

// RuleStats returns the number of concrete rules per macro group of the
// selected world's compiled rule set.
func (s *WorldService) RuleStats() (map[int]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return nil, err
	}
	return w.GroupSizes(), nil
}

// GetCell reads a cell of the selected world.
func (s *WorldService) GetCell(q, r int) (hex.Cell, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return hex.Cell{}, err
	}
	return w.GetCell(q, r)
}

// SetCell writes a cell of the selected world.
func (s *WorldService) SetCell(q, r int, state string, dir int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return err
	}
	return w.SetCell(q, r, state, dir)
}

// ClearCell empties one cell of the selected world.
func (s *WorldService) ClearCell(q, r int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return err
	}
	return w.ClearCell(q, r)
}

// ClearAll empties the selected world's grid.
func (s *WorldService) ClearAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return err
	}
	w.ClearAll()
	return nil
}

// Randomize fills the selected world randomly.
func (s *WorldService) Randomize(states []string, p float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return err
	}
	return w.Randomize(states, p)
}

// Reseed resets the selected world's RNG.
func (s *WorldService) Reseed(seed int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return err
	}
	w.Reseed(seed)
	return nil
}

// Step advances the selected world one generation and returns the log.
func (s *WorldService) Step() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return nil, err
	}
	return w.Step(), nil
}

// Generation returns the selected world's generation counter.
func (s *WorldService) Generation() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return 0, err
	}
	return w.Generation(), nil
}

// History enumerates the selected world's history entries.
func (s *WorldService) History() ([]HistoryInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return nil, err
	}
	counts := w.HistoryActiveCounts()
	infos := make([]HistoryInfo, len(counts))
	for i, n := range counts {
		infos[i] = HistoryInfo{Index: i, ActiveCount: n}
	}
	return infos, nil
}

// HistoryCursor returns the selected world's history cursor.
func (s *WorldService) HistoryCursor() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return 0, err
	}
	return w.HistoryCursor(), nil
}

// SnapshotAt returns the snapshot recorded at history index i.
func (s *WorldService) SnapshotAt(i int) (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return nil, err
	}
	return w.SnapshotAt(i)
}

// LogAt returns the step log recorded at history index i.
func (s *WorldService) LogAt(i int) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return nil, err
	}
	return w.LogAt(i)
}

// Prev rewinds the selected world one history entry.
func (s *WorldService) Prev() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return err
	}
	return w.Prev()
}

// Next advances the selected world one history entry.
func (s *WorldService) Next() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return err
	}
	return w.Next()
}

// Go moves the selected world's cursor to history index i.
func (s *WorldService) Go(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return err
	}
	return w.Go(i)
}

// Snapshot captures the selected world.
func (s *WorldService) Snapshot() (*engine.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return nil, err
	}
	return w.Snapshot(), nil
}

// Restore replaces the selected world's grid and rules from a snapshot.
func (s *WorldService) Restore(snap *engine.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, err := s.selected()
	if err != nil {
		return err
	}
	return w.Restore(snap)
}

// Cells returns the selected world's non-empty cells in (q, r) order.
func (s *WorldService) Cells() ([]engine.SnapshotCell, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Cells, nil
}
