package textfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/example/scrumban/internal/ports/secondary"
)

const (
	agendaFile = "agenda.txt"
	notesFile  = "general_notes.txt"
)

// Paths locates the files of a text store. Backlog and Members are the
// files the team imported; Todo and Completed are created on first save.
type Paths struct {
	Backlog   string
	Members   string
	Todo      string
	Completed string
	StateDir  string // agenda and general notes
	NotesDir  string // dated General-Notes files
}

// Store implements secondary.BoardStore with plain text files.
type Store struct {
	paths Paths
	now   func() time.Time
}

// NewStore creates a text store over the given paths.
func NewStore(paths Paths) *Store {
	return &Store{paths: paths, now: time.Now}
}

// Load reads every file. The backlog and members files must exist; the
// others are treated as empty when missing.
func (s *Store) Load(ctx context.Context) (*secondary.Snapshot, error) {
	if missing := s.missingImports(); len(missing) > 0 {
		return nil, fmt.Errorf("%w: files were moved, please move them back to: project backlog %s, members file %s",
			secondary.ErrResourceUnavailable, s.paths.Backlog, s.paths.Members)
	}

	snap := &secondary.Snapshot{}
	var err error

	if snap.Backlog, err = readTasks(s.paths.Backlog, ParseTasks); err != nil {
		return nil, err
	}
	if snap.Todo, err = readTasks(s.paths.Todo, ParseTasks); err != nil {
		return nil, err
	}
	if snap.Completed, err = readTasks(s.paths.Completed, ParseCompleted); err != nil {
		return nil, err
	}

	data, err := readOptional(s.paths.Members)
	if err != nil {
		return nil, err
	}
	if snap.Members, err = ParseMembers(bytes.NewReader(data), s.paths.Members); err != nil {
		return nil, err
	}

	if data, err = readOptional(s.statePath(agendaFile)); err != nil {
		return nil, err
	}
	if snap.Agenda, err = ParseAgenda(bytes.NewReader(data)); err != nil {
		return nil, err
	}

	if data, err = readOptional(s.statePath(notesFile)); err != nil {
		return nil, err
	}
	snap.Notes = string(data)

	return snap, nil
}

// Save writes every file. When the general notes are not empty a dated
// General-Notes-MM-DD-YYYY.txt copy is written as well.
func (s *Store) Save(ctx context.Context, snap *secondary.Snapshot) error {
	now := s.now()

	// The backlog goes last so tasks refilled out of it are already in todo
	// or a member line if any earlier write fails.
	files := []struct {
		path string
		data []byte
	}{
		{s.paths.Todo, EncodeTasks(snap.Todo)},
		{s.paths.Members, EncodeMembers(snap.Members)},
		{s.paths.Completed, EncodeCompleted(now, RecordRows(snap.Completed))},
		{s.statePath(agendaFile), EncodeAgenda(snap.Agenda)},
		{s.statePath(notesFile), []byte(snap.Notes)},
		{s.paths.Backlog, EncodeTasks(snap.Backlog)},
	}
	for _, f := range files {
		if err := writeFile(f.path, f.data); err != nil {
			return err
		}
	}

	if snap.Notes != "" && s.paths.NotesDir != "" {
		name := fmt.Sprintf("General-Notes-%s.txt", now.Format("01-02-2006"))
		content := fmt.Sprintf("General Notes for %s\n%s", now.Format("2006-01-02"), snap.Notes)
		if err := writeFile(filepath.Join(s.paths.NotesDir, name), []byte(content)); err != nil {
			return err
		}
	}

	return nil
}

// Reset truncates the todo and completed files and drops agenda and notes.
// The imported backlog and members files are left alone.
func (s *Store) Reset(ctx context.Context) error {
	for _, path := range []string{s.paths.Todo, s.paths.Completed} {
		if err := writeFile(path, nil); err != nil {
			return err
		}
	}
	for _, name := range []string{agendaFile, notesFile} {
		path := s.statePath(name)
		if path == "" {
			continue
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return nil
}

func (s *Store) missingImports() []string {
	var missing []string
	for _, path := range []string{s.paths.Backlog, s.paths.Members} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, path)
		}
	}
	return missing
}

func (s *Store) statePath(name string) string {
	if s.paths.StateDir == "" {
		return ""
	}
	return filepath.Join(s.paths.StateDir, name)
}

func readTasks(path string, parse func(io.Reader, string) ([]secondary.TaskRecord, error)) ([]secondary.TaskRecord, error) {
	data, err := readOptional(path)
	if err != nil {
		return nil, err
	}
	return parse(bytes.NewReader(data), path)
}

// readOptional returns nil data for an unset or missing path.
func readOptional(path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// writeFile replaces path through a temp file in the same directory, so a
// failed write leaves the previous content in place.
func writeFile(path string, data []byte) error {
	if path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
