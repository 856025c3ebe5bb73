package board

import (
	"slices"
	"strings"
	"time"
)

// Limits holds the configured capacities.
type Limits struct {
	TaskLimit int // max tasks per member
	TodoLimit int // max tasks in todo
}

// DefaultLimits are used when no configuration overrides them.
var DefaultLimits = Limits{TaskLimit: 4, TodoLimit: 4}

// Option configures a Board.
type Option func(*Board)

// WithClock sets the clock used to stamp completion dates.
func WithClock(now func() time.Time) Option {
	return func(b *Board) {
		b.now = now
	}
}

// Board owns the backlog, todo, members and completed collections and is the
// only place where tasks move between them.
//
// Every index-taking operation addresses the current state of the target
// collection. Callers must re-read the views after any mutation before issuing
// another index-based operation. A failed operation leaves every collection
// exactly as it was.
type Board struct {
	backlog   []Task
	todo      []Task
	members   []Member
	completed []Task
	agenda    []string
	notes     string
	limits    Limits
	now       func() time.Time
}

// New builds a board from loaded entities. It moves overflow from todo and
// from members back to the backlog, sorts the backlog by priority and refills
// todo from the front of the backlog.
func New(limits Limits, backlog, todo []Task, members []Member, completed []Task, agenda []string, opts ...Option) (*Board, error) {
	if limits.TaskLimit < 1 || limits.TodoLimit < 1 {
		return nil, ErrInvalidLimit
	}

	b := &Board{
		backlog:   slices.Clone(backlog),
		todo:      slices.Clone(todo),
		completed: slices.Clone(completed),
		agenda:    slices.Clone(agenda),
		limits:    limits,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}

	for _, m := range members {
		b.members = append(b.members, m.clone())
	}

	if len(b.todo) > limits.TodoLimit {
		b.backlog = append(b.backlog, b.todo[limits.TodoLimit:]...)
		b.todo = slices.Clip(b.todo[:limits.TodoLimit])
	}
	for i := range b.members {
		m := &b.members[i]
		if len(m.tasks) > limits.TaskLimit {
			b.backlog = append(b.backlog, m.tasks[limits.TaskLimit:]...)
			m.tasks = slices.Clip(m.tasks[:limits.TaskLimit])
		}
	}

	// Only the completed log carries completion dates.
	for i := range b.backlog {
		b.backlog[i].Reopen()
	}
	for i := range b.todo {
		b.todo[i].Reopen()
	}
	for i := range b.members {
		for j := range b.members[i].tasks {
			b.members[i].tasks[j].Reopen()
		}
	}
	for i := range b.completed {
		if !b.completed[i].IsCompleted() {
			_ = b.completed[i].Complete(b.now())
		}
	}

	SortByPriority(b.backlog)
	b.RefillTodo()

	return b, nil
}

// RefillTodo moves tasks from the front of the backlog into todo until todo
// is full or the backlog is empty. It returns the number of tasks moved.
func (b *Board) RefillTodo() int {
	n := min(b.limits.TodoLimit-len(b.todo), len(b.backlog))
	if n <= 0 {
		return 0
	}
	b.todo = append(b.todo, b.backlog[:n]...)
	b.backlog = slices.Delete(b.backlog, 0, n)
	return n
}

// AssignToMember moves the todo task at todoIndex to the end of the member's
// task list. Fails with ErrMemberAtCapacity when the member is full.
func (b *Board) AssignToMember(memberIndex, todoIndex int) error {
	m, err := b.member(memberIndex)
	if err != nil {
		return err
	}

	if err := CanAddToMember(b.memberCapacity(m)).Error(); err != nil {
		return err
	}

	if todoIndex < 0 || todoIndex >= len(b.todo) {
		return indexError("todo", todoIndex, len(b.todo))
	}

	t := b.todo[todoIndex]
	b.todo = slices.Delete(b.todo, todoIndex, todoIndex+1)
	m.AddTask(t)
	return nil
}

// TransferMemberToMember moves a task from one member to the end of another
// member's list. The destination capacity is checked before anything moves.
func (b *Board) TransferMemberToMember(fromIndex, toIndex, taskIndex int) error {
	from, err := b.member(fromIndex)
	if err != nil {
		return err
	}
	to, err := b.member(toIndex)
	if err != nil {
		return err
	}

	if err := CanAddToMember(b.memberCapacity(to)).Error(); err != nil {
		return err
	}

	t, err := from.RemoveTask(taskIndex)
	if err != nil {
		return err
	}
	to.AddTask(t)
	return nil
}

// ReturnToTodo moves a member's task to the end of todo.
func (b *Board) ReturnToTodo(memberIndex, taskIndex int) error {
	m, err := b.member(memberIndex)
	if err != nil {
		return err
	}

	guard := CanReturnToTodo(ReturnToTodoContext{
		MemberName:  m.name,
		MemberTasks: len(m.tasks),
		TodoCount:   len(b.todo),
		TodoLimit:   b.limits.TodoLimit,
	})
	if err := guard.Error(); err != nil {
		return err
	}

	t, err := m.RemoveTask(taskIndex)
	if err != nil {
		return err
	}
	b.todo = append(b.todo, t)
	return nil
}

// Complete moves a member's task to the completed log, stamped with today's
// date. The completed log has no capacity.
func (b *Board) Complete(memberIndex, taskIndex int) error {
	m, err := b.member(memberIndex)
	if err != nil {
		return err
	}
	if taskIndex < 0 || taskIndex >= len(m.tasks) {
		return indexError(m.name+" task", taskIndex, len(m.tasks))
	}

	t := m.tasks[taskIndex]
	if err := t.Complete(b.now()); err != nil {
		return err
	}

	if _, err := m.RemoveTask(taskIndex); err != nil {
		return err
	}
	b.completed = append(b.completed, t)
	return nil
}

// RestoreFromCompleted moves a completed task back to the end of todo and
// clears its completion date.
func (b *Board) RestoreFromCompleted(index int) error {
	if err := CanAddToTodo(TodoCapacityContext{TodoCount: len(b.todo), Limit: b.limits.TodoLimit}).Error(); err != nil {
		return err
	}
	if index < 0 || index >= len(b.completed) {
		return indexError("completed", index, len(b.completed))
	}

	t := b.completed[index]
	b.completed = slices.Delete(b.completed, index, index+1)
	t.Reopen()
	b.todo = append(b.todo, t)
	return nil
}

// SetMemberNotes replaces a member's notes.
func (b *Board) SetMemberNotes(memberIndex int, notes string) error {
	m, err := b.member(memberIndex)
	if err != nil {
		return err
	}
	m.SetNotes(notes)
	return nil
}

// MemberIndex finds a member by name, ignoring case.
func (b *Board) MemberIndex(name string) (int, bool) {
	for i, m := range b.members {
		if strings.EqualFold(m.name, strings.TrimSpace(name)) {
			return i, true
		}
	}
	return -1, false
}

func (b *Board) Agenda() []string          { return slices.Clone(b.agenda) }
func (b *Board) SetAgenda(agenda []string) { b.agenda = slices.Clone(agenda) }
func (b *Board) Notes() string             { return b.notes }
func (b *Board) SetNotes(notes string)     { b.notes = notes }
func (b *Board) TodoLimit() int            { return b.limits.TodoLimit }
func (b *Board) TaskLimit() int            { return b.limits.TaskLimit }

// Backlog returns a copy of the backlog.
func (b *Board) Backlog() []Task { return slices.Clone(b.backlog) }

// Todo returns a copy of todo.
func (b *Board) Todo() []Task { return slices.Clone(b.todo) }

// Completed returns a copy of the completed log.
func (b *Board) Completed() []Task { return slices.Clone(b.completed) }

// Members returns deep copies of the members.
func (b *Board) Members() []Member {
	out := make([]Member, len(b.members))
	for i, m := range b.members {
		out[i] = m.clone()
	}
	return out
}

// TaskCount returns the number of tasks across all collections.
func (b *Board) TaskCount() int {
	n := len(b.backlog) + len(b.todo) + len(b.completed)
	for _, m := range b.members {
		n += len(m.tasks)
	}
	return n
}

// BacklogFields returns the backlog as field lists for persistence.
func (b *Board) BacklogFields() [][]string { return taskFields(b.backlog) }

// TodoFields returns todo as field lists for persistence.
func (b *Board) TodoFields() [][]string { return taskFields(b.todo) }

// CompletedFields returns the completed log as field lists for persistence.
func (b *Board) CompletedFields() [][]string { return taskFields(b.completed) }

// MemberFields returns each member serialized as name, email, task blob, notes.
func (b *Board) MemberFields() [][]string {
	out := make([][]string, len(b.members))
	for i, m := range b.members {
		out[i] = m.Serialize()
	}
	return out
}

func (b *Board) member(index int) (*Member, error) {
	if index < 0 || index >= len(b.members) {
		return nil, indexError("member", index, len(b.members))
	}
	return &b.members[index], nil
}

func (b *Board) memberCapacity(m *Member) MemberCapacityContext {
	return MemberCapacityContext{
		MemberName: m.name,
		TaskCount:  len(m.tasks),
		Limit:      b.limits.TaskLimit,
	}
}

func taskFields(tasks []Task) [][]string {
	out := make([][]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Fields()
	}
	return out
}
