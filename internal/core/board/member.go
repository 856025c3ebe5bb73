package board

import (
	"slices"
	"strings"
)

// Member is a team participant with an ordered list of assigned tasks.
// Member does not enforce capacity; the Board does that before AddTask.
type Member struct {
	name  string
	email string
	tasks []Task
	notes string
}

// NewMember creates a member. The task slice is copied.
func NewMember(name, email string, tasks []Task, notes string) Member {
	return Member{
		name:  name,
		email: email,
		tasks: slices.Clone(tasks),
		notes: notes,
	}
}

func (m Member) Name() string  { return m.name }
func (m Member) Email() string { return m.email }
func (m Member) Notes() string { return m.notes }

// Tasks returns a copy of the member's tasks in assignment order.
func (m Member) Tasks() []Task {
	return slices.Clone(m.tasks)
}

// TaskCount returns the number of assigned tasks.
func (m Member) TaskCount() int {
	return len(m.tasks)
}

// AddTask appends a task to the end of the list.
func (m *Member) AddTask(t Task) {
	m.tasks = append(m.tasks, t)
}

// RemoveTask removes and returns the task at index.
func (m *Member) RemoveTask(index int) (Task, error) {
	if index < 0 || index >= len(m.tasks) {
		return Task{}, indexError(m.name+" task", index, len(m.tasks))
	}
	t := m.tasks[index]
	m.tasks = slices.Delete(m.tasks, index, index+1)
	return t, nil
}

// SetNotes replaces the member's notes.
func (m *Member) SetNotes(notes string) {
	m.notes = notes
}

// Serialize returns name, email, the ";"-joined task strings and notes.
func (m Member) Serialize() []string {
	parts := make([]string, len(m.tasks))
	for i, t := range m.tasks {
		parts[i] = t.String()
	}
	return []string{m.name, m.email, strings.Join(parts, ";"), m.notes}
}

func (m Member) clone() Member {
	return NewMember(m.name, m.email, m.tasks, m.notes)
}
