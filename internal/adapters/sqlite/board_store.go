// Package sqlite contains the SQLite implementation of the board store.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/scrumban/internal/ports/secondary"
)

const (
	collectionBacklog   = "backlog"
	collectionTodo      = "todo"
	collectionMember    = "member"
	collectionCompleted = "completed"
)

// BoardStore implements secondary.BoardStore with SQLite.
type BoardStore struct {
	db *sql.DB
}

// NewBoardStore creates a new SQLite board store.
func NewBoardStore(db *sql.DB) *BoardStore {
	return &BoardStore{db: db}
}

// Load reads every collection in position order.
func (s *BoardStore) Load(ctx context.Context) (*secondary.Snapshot, error) {
	snap := &secondary.Snapshot{}

	members, err := s.loadMembers(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT collection, member_position, name, priority, due_date, completed_date FROM tasks ORDER BY collection, member_position, position",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	byPosition := make(map[int64]int, len(members))
	for i, m := range members {
		byPosition[m.position] = i
	}

	for rows.Next() {
		var (
			collection     string
			memberPosition sql.NullInt64
			rec            secondary.TaskRecord
		)
		if err := rows.Scan(&collection, &memberPosition, &rec.Name, &rec.Priority, &rec.DueDate, &rec.CompletedDate); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}

		switch collection {
		case collectionBacklog:
			snap.Backlog = append(snap.Backlog, rec)
		case collectionTodo:
			snap.Todo = append(snap.Todo, rec)
		case collectionCompleted:
			snap.Completed = append(snap.Completed, rec)
		case collectionMember:
			i, ok := byPosition[memberPosition.Int64]
			if !ok {
				return nil, fmt.Errorf("task %q references unknown member %d", rec.Name, memberPosition.Int64)
			}
			members[i].rec.Tasks = append(members[i].rec.Tasks, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	for _, m := range members {
		snap.Members = append(snap.Members, m.rec)
	}

	if snap.Agenda, err = s.loadAgenda(ctx); err != nil {
		return nil, err
	}

	err = s.db.QueryRowContext(ctx, "SELECT general_notes FROM board_meta WHERE id = 1").Scan(&snap.Notes)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to read general notes: %w", err)
	}

	return snap, nil
}

// Save replaces the stored board in a single transaction.
func (s *BoardStore) Save(ctx context.Context, snap *secondary.Snapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearBoard(ctx, tx); err != nil {
		return err
	}

	for i, m := range snap.Members {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO members (position, name, email, notes) VALUES (?, ?, ?, ?)",
			i, m.Name, m.Email, m.Notes,
		)
		if err != nil {
			return fmt.Errorf("failed to save member %s: %w", m.Name, err)
		}
		if err := insertTasks(ctx, tx, collectionMember, sql.NullInt64{Int64: int64(i), Valid: true}, m.Tasks); err != nil {
			return err
		}
	}

	collections := []struct {
		name  string
		tasks []secondary.TaskRecord
	}{
		{collectionBacklog, snap.Backlog},
		{collectionTodo, snap.Todo},
		{collectionCompleted, snap.Completed},
	}
	for _, c := range collections {
		if err := insertTasks(ctx, tx, c.name, sql.NullInt64{}, c.tasks); err != nil {
			return err
		}
	}

	for i, item := range snap.Agenda {
		if _, err := tx.ExecContext(ctx, "INSERT INTO agenda_items (position, item) VALUES (?, ?)", i, item); err != nil {
			return fmt.Errorf("failed to save agenda item: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO board_meta (id, general_notes, updated_at) VALUES (1, ?, CURRENT_TIMESTAMP)",
		snap.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save general notes: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit board: %w", err)
	}
	return nil
}

// Reset removes every stored row.
func (s *BoardStore) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := clearBoard(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reset: %w", err)
	}
	return nil
}

type storedMember struct {
	position int64
	rec      secondary.MemberRecord
}

func (s *BoardStore) loadMembers(ctx context.Context) ([]storedMember, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT position, name, email, notes FROM members ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []storedMember
	for rows.Next() {
		var m storedMember
		if err := rows.Scan(&m.position, &m.rec.Name, &m.rec.Email, &m.rec.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read members: %w", err)
	}
	return members, nil
}

func (s *BoardStore) loadAgenda(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT item FROM agenda_items ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query agenda: %w", err)
	}
	defer rows.Close()

	var items []string
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, fmt.Errorf("failed to scan agenda item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read agenda: %w", err)
	}
	return items, nil
}

func insertTasks(ctx context.Context, tx *sql.Tx, collection string, memberPosition sql.NullInt64, tasks []secondary.TaskRecord) error {
	for i, t := range tasks {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO tasks (collection, member_position, position, name, priority, due_date, completed_date) VALUES (?, ?, ?, ?, ?, ?, ?)",
			collection, memberPosition, i, t.Name, t.Priority, t.DueDate, t.CompletedDate,
		)
		if err != nil {
			return fmt.Errorf("failed to save %s task %s: %w", collection, t.Name, err)
		}
	}
	return nil
}

func clearBoard(ctx context.Context, tx *sql.Tx) error {
	for _, table := range []string{"tasks", "members", "agenda_items", "board_meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
