package textfile

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/example/scrumban/internal/ports/secondary"
)

var storeNow = time.Date(2030, time.March, 4, 16, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) (*Store, Paths) {
	t.Helper()
	dir := t.TempDir()
	paths := Paths{
		Backlog:   filepath.Join(dir, "backlog.txt"),
		Members:   filepath.Join(dir, "members.txt"),
		Todo:      filepath.Join(dir, "todo_backlog.txt"),
		Completed: filepath.Join(dir, "completed_tasks.csv"),
		StateDir:  filepath.Join(dir, ".scrumban"),
		NotesDir:  dir,
	}
	s := NewStore(paths)
	s.now = func() time.Time { return storeNow }
	return s, paths
}

func TestStore_LoadMissingImports(t *testing.T) {
	s, paths := newTestStore(t)

	_, err := s.Load(context.Background())
	if !errors.Is(err, secondary.ErrResourceUnavailable) {
		t.Fatalf("expected ErrResourceUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), paths.Backlog) || !strings.Contains(err.Error(), paths.Members) {
		t.Errorf("error %q should name both import paths", err)
	}
}

func TestStore_LoadFreshImport(t *testing.T) {
	s, paths := newTestStore(t)
	os.WriteFile(paths.Backlog, []byte("Write spec, 5, 3/1/2030\nFix bug, 1, 3/2/2030\n"), 0644)
	os.WriteFile(paths.Members, []byte("Ann, ann@example.com\n"), 0644)

	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(snap.Backlog) != 2 || len(snap.Members) != 1 {
		t.Errorf("got %d backlog, %d members", len(snap.Backlog), len(snap.Members))
	}
	if snap.Todo != nil || snap.Completed != nil || snap.Agenda != nil || snap.Notes != "" {
		t.Errorf("expected empty optional collections, got %+v", snap)
	}
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	s, paths := newTestStore(t)
	ctx := context.Background()

	want := &secondary.Snapshot{
		Backlog: []secondary.TaskRecord{{Name: "Write spec", Priority: 5, DueDate: "3/1/2030"}},
		Todo:    []secondary.TaskRecord{{Name: "Plan", Priority: 2, DueDate: "3/5/2030"}},
		Members: []secondary.MemberRecord{
			{Name: "Ann", Email: "ann@example.com", Tasks: []secondary.TaskRecord{{Name: "Fix bug", Priority: 1, DueDate: "3/2/2030"}}, Notes: "Blocked"},
			{Name: "Bob", Email: "bob@example.com"},
		},
		Completed: []secondary.TaskRecord{{Name: "Ship", Priority: 1, DueDate: "3/3/2030", CompletedDate: "03/04/2030"}},
		Agenda:    []string{"Standup", "Retro"},
		Notes:     "Demo on Friday",
	}

	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}

	dated, err := os.ReadFile(filepath.Join(paths.NotesDir, "General-Notes-03-04-2030.txt"))
	if err != nil {
		t.Fatalf("dated notes not written: %v", err)
	}
	if string(dated) != "General Notes for 2030-03-04\nDemo on Friday" {
		t.Errorf("dated notes = %q", dated)
	}

	completed, _ := os.ReadFile(paths.Completed)
	if !strings.HasPrefix(string(completed), "Completed Tasks as of 2030-03-04\n") {
		t.Errorf("completed log header = %q", completed)
	}
}

func TestStore_SaveWithoutNotesSkipsDatedFile(t *testing.T) {
	s, paths := newTestStore(t)

	if err := s.Save(context.Background(), &secondary.Snapshot{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(paths.NotesDir, "General-Notes-03-04-2030.txt")); !os.IsNotExist(err) {
		t.Errorf("expected no dated notes file, stat err = %v", err)
	}
}

func TestStore_Reset(t *testing.T) {
	s, paths := newTestStore(t)
	ctx := context.Background()

	snap := &secondary.Snapshot{
		Backlog:   []secondary.TaskRecord{{Name: "Write spec", Priority: 5, DueDate: "3/1/2030"}},
		Members:   []secondary.MemberRecord{{Name: "Ann", Email: "ann@example.com"}},
		Todo:      []secondary.TaskRecord{{Name: "Plan", Priority: 2, DueDate: "3/5/2030"}},
		Completed: []secondary.TaskRecord{{Name: "Ship", Priority: 1, DueDate: "3/3/2030", CompletedDate: "03/04/2030"}},
		Agenda:    []string{"Standup"},
		Notes:     "Notes",
	}
	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Todo != nil || got.Completed != nil || got.Agenda != nil || got.Notes != "" {
		t.Errorf("expected session state cleared, got %+v", got)
	}
	if len(got.Backlog) != 1 || len(got.Members) != 1 {
		t.Errorf("imports should survive reset, got %+v", got)
	}
	if _, err := os.Stat(paths.Backlog); err != nil {
		t.Errorf("backlog removed: %v", err)
	}
}

func TestStore_ImportedTaskRoundTripsThroughMember(t *testing.T) {
	s, paths := newTestStore(t)
	ctx := context.Background()

	if err := os.WriteFile(paths.Backlog, []byte("Fix the login bug, 1, 1/1/2030\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(paths.Members, []byte("Ann Lee, ann@example.com\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := ValidateTaskFile(paths.Backlog); err != nil {
		t.Fatalf("ValidateTaskFile failed: %v", err)
	}

	snap, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	snap.Members[0].Tasks = append(snap.Members[0].Tasks, snap.Backlog[0])
	snap.Backlog = nil

	if err := s.Save(ctx, snap); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load after save failed: %v", err)
	}
	want := []secondary.TaskRecord{{Name: "Fix the login bug", Priority: 1, DueDate: "1/1/2030"}}
	if !reflect.DeepEqual(got.Members[0].Tasks, want) {
		t.Errorf("member tasks = %+v, want %+v", got.Members[0].Tasks, want)
	}
}

func TestStore_FailedSaveKeepsBacklog(t *testing.T) {
	s, paths := newTestStore(t)
	ctx := context.Background()

	original := "Write spec, 5, 3/1/2030\nPlan, 2, 3/5/2030\n"
	if err := os.WriteFile(paths.Backlog, []byte(original), 0644); err != nil {
		t.Fatal(err)
	}
	// A directory where the todo file belongs makes the todo write fail.
	if err := os.MkdirAll(paths.Todo, 0755); err != nil {
		t.Fatal(err)
	}

	snap := &secondary.Snapshot{
		Backlog: []secondary.TaskRecord{{Name: "Write spec", Priority: 5, DueDate: "3/1/2030"}},
		Todo:    []secondary.TaskRecord{{Name: "Plan", Priority: 2, DueDate: "3/5/2030"}},
	}
	if err := s.Save(ctx, snap); err == nil {
		t.Fatal("expected Save to fail")
	}

	got, err := os.ReadFile(paths.Backlog)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != original {
		t.Errorf("backlog = %q, want it untouched", got)
	}

	entries, err := os.ReadDir(filepath.Dir(paths.Todo))
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".todo_backlog.txt.") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
