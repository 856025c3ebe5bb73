// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// Error kinds surfaced by adapters. Check them with errors.Is.
var (
	// ErrValidation marks an externally supplied file that does not match
	// the expected record format.
	ErrValidation = errors.New("validation failed")

	// ErrResourceUnavailable marks a missing file or an unreachable network peer.
	ErrResourceUnavailable = errors.New("resource unavailable")
)

// BoardStore defines the secondary port for board persistence.
type BoardStore interface {
	// Load reads every collection of the board.
	Load(ctx context.Context) (*Snapshot, error)

	// Save writes every collection of the board.
	Save(ctx context.Context, snapshot *Snapshot) error

	// Reset clears session state so the next init starts fresh.
	Reset(ctx context.Context) error
}

// Snapshot is the persisted form of a board.
type Snapshot struct {
	Backlog   []TaskRecord
	Todo      []TaskRecord
	Members   []MemberRecord
	Completed []TaskRecord
	Agenda    []string
	Notes     string
}

// TaskRecord represents a task as stored in persistence.
// CompletedDate is only set for records of the completed log.
type TaskRecord struct {
	Name          string
	Priority      int
	DueDate       string
	CompletedDate string
}

// MemberRecord represents a member as stored in persistence.
type MemberRecord struct {
	Name  string
	Email string
	Tasks []TaskRecord
	Notes string
}

// CompletedEncoder renders completed-log rows (name, priority, due date,
// completion date) in the completed-log file format.
type CompletedEncoder func(asOf time.Time, rows [][]string) []byte
