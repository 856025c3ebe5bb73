package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/example/scrumban/internal/config"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

const (
	backlogFixture = "Fix bug, 1, 3/2/2030\n" +
		"Write docs, 3, 3/9/2030\n" +
		"Ship release, 2, 3/5/2030\n"
	membersFixture = "Ann, ann@example.com\n" +
		"Bob, bob@example.com\n"
)

// setupProject writes the import files into a temp workdir.
func setupProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range map[string]string{
		"backlog.txt": backlogFixture,
		"members.txt": membersFixture,
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	t.Setenv("SCRUMBAN_SMTP_USER", "")
	t.Setenv("SCRUMBAN_SMTP_PASSWORD", "")
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func initProject(t *testing.T, dir string, extra ...string) {
	t.Helper()
	args := []string{"init",
		"--backlog", filepath.Join(dir, "backlog.txt"),
		"--members", filepath.Join(dir, "members.txt"),
		"--todo-limit", "2",
		"--task-limit", "1",
	}
	mustRun(t, dir, append(args, extra...)...)
}

func TestInit(t *testing.T) {
	dir := setupProject(t)

	out := mustRun(t, dir, "init",
		"--backlog", filepath.Join(dir, "backlog.txt"),
		"--members", filepath.Join(dir, "members.txt"),
		"--todo-limit", "2",
	)

	if !strings.Contains(out, "✓ Board initialized") {
		t.Errorf("expected init confirmation, got:\n%s", out)
	}
	if !strings.Contains(out, "1. Fix bug [P1]") || !strings.Contains(out, "2. Ship release [P2]") {
		t.Errorf("expected todo filled by priority, got:\n%s", out)
	}
	if !config.Exists(dir) {
		t.Error("expected config to be written")
	}

	todo, err := os.ReadFile(filepath.Join(dir, config.DefaultTodoFile))
	if err != nil {
		t.Fatalf("expected todo file: %v", err)
	}
	if string(todo) != "Fix bug, 1, 3/2/2030\nShip release, 2, 3/5/2030\n" {
		t.Errorf("todo file = %q", todo)
	}

	if _, err := run(t, dir, "init", "--backlog", "backlog.txt", "--members", "members.txt"); err == nil {
		t.Error("expected second init to fail")
	}
}

func TestInit_InvalidFiles(t *testing.T) {
	dir := setupProject(t)
	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("no priority here\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		backlog string
		members string
	}{
		{"missing backlog", filepath.Join(dir, "nope.txt"), filepath.Join(dir, "members.txt")},
		{"malformed backlog", bad, filepath.Join(dir, "members.txt")},
		{"malformed members", filepath.Join(dir, "backlog.txt"), bad},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, dir, "init", "--backlog", tt.backlog, "--members", tt.members); err == nil {
				t.Error("expected error")
			}
			if config.Exists(dir) {
				t.Error("expected no config after failed init")
			}
		})
	}
}

func TestCommandsWithoutInit(t *testing.T) {
	dir := setupProject(t)

	_, err := run(t, dir, "show")
	if err == nil || !strings.Contains(err.Error(), "scrumban init") {
		t.Errorf("expected not-initialized hint, got %v", err)
	}
}

func TestTaskFlow(t *testing.T) {
	for _, store := range []string{config.StoreText, config.StoreSQLite} {
		t.Run(store, func(t *testing.T) {
			dir := setupProject(t)
			initProject(t, dir, "--store", store)

			out := mustRun(t, dir, "assign", "Ann", "1")
			if !strings.Contains(out, `✓ Assigned "Fix bug" to Ann`) {
				t.Errorf("assign output:\n%s", out)
			}

			// Ann is at the task limit.
			if _, err := run(t, dir, "assign", "1", "1"); err == nil {
				t.Error("expected assign over the task limit to fail")
			}

			mustRun(t, dir, "move", "Ann", "Bob", "1")
			mustRun(t, dir, "complete", "Bob", "1")

			show := mustRun(t, dir, "show")
			if !strings.Contains(show, "Completed (1)") {
				t.Errorf("expected one completed task, got:\n%s", show)
			}
			if !strings.Contains(show, "1. Ship release [P2]") || !strings.Contains(show, "2. Write docs [P3]") {
				t.Errorf("expected todo refilled from backlog, got:\n%s", show)
			}

			// Todo is full, so restore must refuse.
			if _, err := run(t, dir, "restore", "1"); err == nil {
				t.Error("expected restore into full todo to fail")
			}

			mustRun(t, dir, "assign", "Ann", "1")
			mustRun(t, dir, "return", "Ann", "1")
			if _, err := run(t, dir, "return", "Ann", "1"); err == nil {
				t.Error("expected return from empty member to fail")
			}
		})
	}
}

func TestTaskFlow_BadArguments(t *testing.T) {
	dir := setupProject(t)
	initProject(t, dir)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown member", []string{"assign", "Zed", "1"}},
		{"member number out of range", []string{"assign", "9", "1"}},
		{"todo number not a number", []string{"assign", "Ann", "one"}},
		{"todo number out of range", []string{"assign", "Ann", "7"}},
		{"missing args", []string{"move", "Ann"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := run(t, dir, tt.args...); err == nil {
				t.Errorf("expected %v to fail", tt.args)
			}
		})
	}
}

func TestAgendaAndNotes(t *testing.T) {
	dir := setupProject(t)
	initProject(t, dir)

	agenda := filepath.Join(dir, "agenda.txt")
	if err := os.WriteFile(agenda, []byte("Standup\n\nRetro\n"), 0644); err != nil {
		t.Fatal(err)
	}
	mustRun(t, dir, "agenda", "import", agenda)
	out := mustRun(t, dir, "agenda", "show")
	if !strings.Contains(out, "1. Standup") || !strings.Contains(out, "2. Retro") {
		t.Errorf("agenda show:\n%s", out)
	}

	mustRun(t, dir, "notes", "set", "Demo", "on", "Friday")
	out = mustRun(t, dir, "notes", "show")
	if !strings.Contains(out, "Demo on Friday") {
		t.Errorf("notes show:\n%s", out)
	}

	mustRun(t, dir, "member", "notes", "Bob", "Needs", "staging")
	out = mustRun(t, dir, "show")
	if !strings.Contains(out, "notes: Needs staging") {
		t.Errorf("expected member notes in show, got:\n%s", out)
	}
}

func TestReport_DryRun(t *testing.T) {
	dir := setupProject(t)
	initProject(t, dir)

	out := mustRun(t, dir, "report", "--dry-run")
	if !strings.Contains(out, "to Ann <ann@example.com>") || !strings.Contains(out, "to Bob <bob@example.com>") {
		t.Errorf("dry run output:\n%s", out)
	}
}

func TestReport_NoCredentials(t *testing.T) {
	dir := setupProject(t)
	initProject(t, dir)

	out := mustRun(t, dir, "report", "--timeout", "2s")
	if !strings.Contains(out, "Reports not sent") {
		t.Errorf("expected skipped reports, got:\n%s", out)
	}
}

func TestReset(t *testing.T) {
	dir := setupProject(t)
	initProject(t, dir)
	mustRun(t, dir, "assign", "Ann", "1")

	if _, err := run(t, dir, "reset"); err == nil {
		t.Error("expected reset without --yes to fail")
	}
	if !config.Exists(dir) {
		t.Fatal("expected config to survive unconfirmed reset")
	}

	out := mustRun(t, dir, "reset", "--yes")
	if !strings.Contains(out, "✓ Board reset") {
		t.Errorf("reset output:\n%s", out)
	}
	if config.Exists(dir) {
		t.Error("expected config removed")
	}

	todo, err := os.ReadFile(filepath.Join(dir, config.DefaultTodoFile))
	if err != nil {
		t.Fatal(err)
	}
	if len(todo) != 0 {
		t.Errorf("expected empty todo after reset, got %q", todo)
	}

}
