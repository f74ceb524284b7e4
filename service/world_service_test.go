package service_test

import (
	"errors"
	"testing"

	"github.com/hexirules/hexirules/service"
)

func newService(t *testing.T) *service.WorldService {
	t.Helper()
	return service.NewWorldService(0, 16)
}

func TestWorldService_CreateSelects(t *testing.T) {
	s := newService(t)

	if err := s.CreateWorld("alpha", 3); err != nil {
		t.Fatalf("create: %v", err)
	}

	name, err := s.CurrentName()
	if err != nil {
		t.Fatal(err)
	}
	if name != "alpha" {
		t.Errorf("current = %q, want alpha", name)
	}

	info, err := s.CurrentInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Radius != 3 || info.ActiveCount != 0 {
		t.Errorf("info = %+v", info)
	}
}

func TestWorldService_NameConflict(t *testing.T) {
	s := newService(t)

	if err := s.CreateWorld("alpha", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.CreateWorld("alpha", 2); !errors.Is(err, service.ErrNameConflict) {
		t.Errorf("duplicate create = %v, want name conflict", err)
	}

	if err := s.CreateWorld("beta", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.RenameWorld("beta", "alpha"); !errors.Is(err, service.ErrNameConflict) {
		t.Errorf("rename onto taken name = %v, want name conflict", err)
	}
}

func TestWorldService_NotFound(t *testing.T) {
	s := newService(t)

	if err := s.SelectWorld("ghost"); !errors.Is(err, service.ErrWorldNotFound) {
		t.Errorf("select = %v, want not found", err)
	}
	if err := s.DeleteWorld("ghost"); !errors.Is(err, service.ErrWorldNotFound) {
		t.Errorf("delete = %v, want not found", err)
	}
	if err := s.RenameWorld("ghost", "spirit"); !errors.Is(err, service.ErrWorldNotFound) {
		t.Errorf("rename = %v, want not found", err)
	}
}

func TestWorldService_NoWorldSelected(t *testing.T) {
	s := newService(t)

	if _, err := s.Step(); !errors.Is(err, service.ErrNoWorldSelected) {
		t.Errorf("step = %v, want no world selected", err)
	}
	if err := s.SetCell(0, 0, "a", 0); !errors.Is(err, service.ErrNoWorldSelected) {
		t.Errorf("set = %v, want no world selected", err)
	}
}

func TestWorldService_RenamePreservesSelection(t *testing.T) {
	s := newService(t)
	if err := s.CreateWorld("alpha", 2); err != nil {
		t.Fatal(err)
	}

	if err := s.RenameWorld("alpha", "beta"); err != nil {
		t.Fatal(err)
	}
	name, err := s.CurrentName()
	if err != nil {
		t.Fatal(err)
	}
	if name != "beta" {
		t.Errorf("current = %q, want beta", name)
	}
}

func TestWorldService_DeleteClearsSelection(t *testing.T) {
	s := newService(t)
	if err := s.CreateWorld("alpha", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteWorld("alpha"); err != nil {
		t.Fatal(err)
	}

	if _, err := s.CurrentName(); !errors.Is(err, service.ErrNoWorldSelected) {
		t.Errorf("current after delete = %v, want no world selected", err)
	}
}

func TestWorldService_ListSorted(t *testing.T) {
	s := newService(t)
	for _, name := range []string{"c", "a", "b"} {
		if err := s.CreateWorld(name, 2); err != nil {
			t.Fatal(err)
		}
	}

	infos := s.ListWorlds()
	if len(infos) != 3 {
		t.Fatalf("listed %d worlds, want 3", len(infos))
	}
	for i, want := range []string{"a", "b", "c"} {
		if infos[i].Name != want {
			t.Errorf("infos[%d].Name = %q, want %q", i, infos[i].Name, want)
		}
	}
}

func TestWorldService_StepAndHistory(t *testing.T) {
	s := newService(t)
	if err := s.CreateWorld("alpha", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRules("a => b"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCell(0, 0, "a", 0); err != nil {
		t.Fatal(err)
	}

	log, err := s.Step()
	if err != nil {
		t.Fatal(err)
	}
	if len(log) != 1 {
		t.Errorf("log has %d lines, want 1", len(log))
	}

	entries, err := s.History()
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Index != 0 || entries[0].ActiveCount != 1 {
		t.Errorf("entries = %+v", entries)
	}

	recorded, err := s.LogAt(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(recorded) != 1 {
		t.Errorf("recorded log has %d lines, want 1", len(recorded))
	}

	if err := s.Prev(); err != nil {
		t.Fatal(err)
	}
	cell, err := s.GetCell(0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if cell.State != "a" {
		t.Errorf("rewound state = %q, want a", cell.State)
	}
}

func TestWorldService_SelectSwitchesWorlds(t *testing.T) {
	s := newService(t)
	if err := s.CreateWorld("alpha", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCell(0, 0, "a", 0); err != nil {
		t.Fatal(err)
	}

	if err := s.CreateWorld("beta", 3); err != nil {
		t.Fatal(err)
	}
	info, err := s.CurrentInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "beta" || info.ActiveCount != 0 {
		t.Errorf("info = %+v, want fresh beta", info)
	}

	if err := s.SelectWorld("alpha"); err != nil {
		t.Fatal(err)
	}
	info, err = s.CurrentInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Name != "alpha" || info.ActiveCount != 1 {
		t.Errorf("info = %+v, want alpha with one cell", info)
	}
}

func TestWorldService_SnapshotRestore(t *testing.T) {
	s := newService(t)
	if err := s.CreateWorld("alpha", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRules("a => b"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCell(1, 0, "a", 5); err != nil {
		t.Fatal(err)
	}

	snap, err := s.Snapshot()
	if err != nil {
		t.Fatal(err)
	}

	if err := s.ClearAll(); err != nil {
		t.Fatal(err)
	}
	if err := s.Restore(snap); err != nil {
		t.Fatal(err)
	}

	cells, err := s.Cells()
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 1 || cells[0].Q != 1 || cells[0].State != "a" {
		t.Errorf("cells = %+v", cells)
	}
	if cells[0].Direction == nil || *cells[0].Direction != 5 {
		t.Errorf("direction = %v, want 5", cells[0].Direction)
	}
}

func TestWorldService_RuleStats(t *testing.T) {
	s := newService(t)
	if err := s.CreateWorld("alpha", 2); err != nil {
		t.Fatal(err)
	}
	if err := s.SetRules("a% => b\nc => d"); err != nil {
		t.Fatal(err)
	}

	stats, err := s.RuleStats()
	if err != nil {
		t.Fatal(err)
	}
	if stats[0] != 6 || stats[1] != 1 {
		t.Errorf("stats = %v, want 0:6 1:1", stats)
	}
}
