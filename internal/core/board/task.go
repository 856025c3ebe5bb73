// Package board contains the Scrumban board state machine: tasks, members,
// and the capacity-checked transfers between backlog, todo, members and the
// completed log. It does no I/O.
package board

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the MM/DD/YYYY layout used for completion dates.
const DateLayout = "01/02/2006"

// Task is a unit of work. A Task value is owned by exactly one collection.
type Task struct {
	name          string
	priority      int
	dueDate       string
	completedDate string
}

// NewTask creates a task. completedDate is empty for tasks that are not done.
func NewTask(name string, priority int, dueDate, completedDate string) Task {
	return Task{
		name:          name,
		priority:      priority,
		dueDate:       dueDate,
		completedDate: completedDate,
	}
}

func (t Task) Name() string          { return t.name }
func (t Task) Priority() int         { return t.priority }
func (t Task) DueDate() string       { return t.dueDate }
func (t Task) CompletedDate() string { return t.completedDate }

// IsCompleted reports whether the task carries a completion date.
func (t Task) IsCompleted() bool {
	return t.completedDate != ""
}

// Complete stamps the task with now's date. A task is completed at most once;
// a second call returns ErrAlreadyCompleted and keeps the first date.
func (t *Task) Complete(now time.Time) error {
	if t.IsCompleted() {
		return ErrAlreadyCompleted
	}
	t.completedDate = now.Format(DateLayout)
	return nil
}

// Reopen clears the completion date.
func (t *Task) Reopen() {
	t.completedDate = ""
}

// Fields returns name, priority, due date and completion date in order.
func (t Task) Fields() []string {
	return []string{t.name, strconv.Itoa(t.priority), t.dueDate, t.completedDate}
}

// String returns the tab-delimited form used inside member records.
func (t Task) String() string {
	return strings.Join(t.Fields(), "\t")
}
