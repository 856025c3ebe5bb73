// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the board.
package primary

import (
	"context"

	"github.com/example/scrumban/internal/ports/secondary"
)

// BoardService defines the primary port for meeting board operations.
//
// Index arguments are 0-based positions into the collection as returned by
// the most recent GetBoard call. Re-read the board after every mutation.
type BoardService interface {
	// GetBoard returns a read-only view of the whole board.
	GetBoard(ctx context.Context) (*Board, error)

	// RefillTodo moves backlog tasks into todo up to the todo limit.
	RefillTodo(ctx context.Context) (int, error)

	// AssignTask moves a todo task to a member.
	AssignTask(ctx context.Context, req AssignTaskRequest) error

	// TransferTask moves a task between two members.
	TransferTask(ctx context.Context, req TransferTaskRequest) error

	// ReturnTask moves a member's task back to todo.
	ReturnTask(ctx context.Context, req MemberTaskRequest) error

	// CompleteTask moves a member's task to the completed log.
	CompleteTask(ctx context.Context, req MemberTaskRequest) error

	// RestoreTask moves a completed task back to todo.
	RestoreTask(ctx context.Context, completedIndex int) error

	// SetAgenda replaces the meeting agenda.
	SetAgenda(ctx context.Context, items []string) error

	// SetNotes replaces the general meeting notes.
	SetNotes(ctx context.Context, notes string) error

	// FindMember returns the index of the member with the given name,
	// ignoring case and surrounding space.
	FindMember(ctx context.Context, name string) (int, error)

	// SetMemberNotes replaces one member's notes.
	SetMemberNotes(ctx context.Context, memberIndex int, notes string) error

	// SendReports emails one report per member.
	SendReports(ctx context.Context, req SendReportsRequest) (*SendReportsResponse, error)

	// Save persists the board.
	Save(ctx context.Context) error

	// Reset clears the stored session state: todo, completed log, agenda
	// and notes.
	Reset(ctx context.Context) error
}

// Task is a read-only task view.
type Task struct {
	Name          string
	Priority      int
	DueDate       string
	CompletedDate string
}

// Member is a read-only member view.
type Member struct {
	Name  string
	Email string
	Tasks []Task
	Notes string
}

// Board is a read-only view of every collection.
type Board struct {
	Backlog   []Task
	Todo      []Task
	Members   []Member
	Completed []Task
	Agenda    []string
	Notes     string
	TodoLimit int
	TaskLimit int
}

// AssignTaskRequest contains parameters for assigning a todo task.
type AssignTaskRequest struct {
	MemberIndex int
	TodoIndex   int
}

// TransferTaskRequest contains parameters for moving a task between members.
type TransferTaskRequest struct {
	FromMemberIndex int
	ToMemberIndex   int
	TaskIndex       int
}

// MemberTaskRequest addresses one task of one member.
type MemberTaskRequest struct {
	MemberIndex int
	TaskIndex   int
}

// SendReportsRequest contains parameters for sending reports.
type SendReportsRequest struct {
	DryRun bool // build messages without sending
}

// SendReportsResponse contains the outcome of sending reports.
type SendReportsResponse struct {
	Messages []*secondary.Message
	Sent     []string          // member names
	Failed   map[string]string // member name -> reason
	Skipped  bool              // no network path; nothing was sent
	Reason   string
}
