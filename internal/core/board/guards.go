package board

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Kind    error // sentinel wrapped by Error(), nil when allowed
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Kind == nil {
		return fmt.Errorf("%s", r.Reason)
	}
	return fmt.Errorf("%w: %s", r.Kind, r.Reason)
}

// MemberCapacityContext provides context for guards that add a task to a member.
type MemberCapacityContext struct {
	MemberName string
	TaskCount  int
	Limit      int
}

// TodoCapacityContext provides context for guards that add a task to todo.
type TodoCapacityContext struct {
	TodoCount int
	Limit     int
}

// ReturnToTodoContext provides context for moving a member's task back to todo.
type ReturnToTodoContext struct {
	MemberName  string
	MemberTasks int
	TodoCount   int
	TodoLimit   int
}

// CanAddToMember evaluates whether a member can take one more task.
// Rules:
// - Member must hold fewer tasks than the per-member limit
func CanAddToMember(ctx MemberCapacityContext) GuardResult {
	if ctx.TaskCount >= ctx.Limit {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%s already holds %d of %d tasks", ctx.MemberName, ctx.TaskCount, ctx.Limit),
			Kind:    ErrMemberAtCapacity,
		}
	}

	return GuardResult{Allowed: true}
}

// CanAddToTodo evaluates whether todo can take one more task.
// Rules:
// - Todo must hold fewer tasks than the todo limit
func CanAddToTodo(ctx TodoCapacityContext) GuardResult {
	if ctx.TodoCount >= ctx.Limit {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("todo already holds %d of %d tasks", ctx.TodoCount, ctx.Limit),
			Kind:    ErrTodoAtCapacity,
		}
	}

	return GuardResult{Allowed: true}
}

// CanReturnToTodo evaluates whether a member's task can go back to todo.
// Rules:
// - Todo must have a free slot
// - Member must hold at least one task
func CanReturnToTodo(ctx ReturnToTodoContext) GuardResult {
	if result := CanAddToTodo(TodoCapacityContext{TodoCount: ctx.TodoCount, Limit: ctx.TodoLimit}); !result.Allowed {
		return result
	}

	if ctx.MemberTasks == 0 {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%s has no tasks to return", ctx.MemberName),
			Kind:    ErrMemberHasNoTasks,
		}
	}

	return GuardResult{Allowed: true}
}
