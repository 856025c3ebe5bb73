package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/scrumban/internal/ports/primary"
)

var (
	headingColor = color.New(color.FgYellow, color.Bold)
	memberColor  = color.New(color.FgCyan)
	fullColor    = color.New(color.FgRed)
	dimColor     = color.New(color.FgHiBlack)
)

// BoardAdapter is a thin adapter that translates CLI operations to BoardService calls.
// It accepts the 1-based numbers shown by Show and converts them to indices.
type BoardAdapter struct {
	service primary.BoardService
	out     io.Writer
}

// NewBoardAdapter creates a new BoardAdapter with the given service.
func NewBoardAdapter(service primary.BoardService, out io.Writer) *BoardAdapter {
	return &BoardAdapter{
		service: service,
		out:     out,
	}
}

// Show prints todo, members, the completed log, the agenda and the notes.
func (a *BoardAdapter) Show(ctx context.Context) error {
	b, err := a.service.GetBoard(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, headingColor.Sprint("Todo ")+capacity(len(b.Todo), b.TodoLimit))
	a.printTasks(b.Todo, "  (empty)")
	fmt.Fprintln(a.out)

	fmt.Fprintln(a.out, headingColor.Sprint("Members"))
	if len(b.Members) == 0 {
		fmt.Fprintln(a.out, "  (none)")
	}
	for i, m := range b.Members {
		fmt.Fprintf(a.out, "%d. %s <%s> %s\n", i+1, memberColor.Sprint(m.Name), m.Email, capacity(len(m.Tasks), b.TaskLimit))
		for j, t := range m.Tasks {
			fmt.Fprintf(a.out, "   %s\n", formatTask(j+1, t))
		}
		if m.Notes != "" {
			fmt.Fprintf(a.out, "   %s %s\n", dimColor.Sprint("notes:"), oneLine(m.Notes))
		}
	}
	fmt.Fprintln(a.out)

	fmt.Fprintf(a.out, "%s (%d)\n", headingColor.Sprint("Completed"), len(b.Completed))
	a.printTasks(b.Completed, "  (none)")
	fmt.Fprintf(a.out, "\n%s %d task(s) waiting\n", headingColor.Sprint("Backlog:"), len(b.Backlog))

	if len(b.Agenda) > 0 {
		fmt.Fprintln(a.out)
		a.printAgenda(b.Agenda)
	}
	if b.Notes != "" {
		fmt.Fprintf(a.out, "\n%s\n%s\n", headingColor.Sprint("Notes"), b.Notes)
	}
	return nil
}

// Backlog lists the backlog in priority order.
func (a *BoardAdapter) Backlog(ctx context.Context) error {
	b, err := a.service.GetBoard(ctx)
	if err != nil {
		return err
	}

	if len(b.Backlog) == 0 {
		fmt.Fprintln(a.out, "Backlog is empty.")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tPRIORITY\tDUE")
	fmt.Fprintln(w, "-\t----\t--------\t---")
	for i, t := range b.Backlog {
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, t.Name, t.Priority, t.DueDate)
	}
	w.Flush()
	return nil
}

// Refill moves backlog tasks into todo.
func (a *BoardAdapter) Refill(ctx context.Context) error {
	moved, err := a.service.RefillTodo(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Moved %d task(s) from backlog to todo\n", moved)
	return nil
}

// Assign gives todo task todoNum to a member.
func (a *BoardAdapter) Assign(ctx context.Context, memberRef, todoNum string) error {
	b, err := a.service.GetBoard(ctx)
	if err != nil {
		return err
	}
	memberIdx, err := a.resolveMember(ctx, b, memberRef)
	if err != nil {
		return err
	}
	todoIdx, err := parseNumber("todo task", todoNum)
	if err != nil {
		return err
	}

	if err := a.service.AssignTask(ctx, primary.AssignTaskRequest{MemberIndex: memberIdx, TodoIndex: todoIdx}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Assigned %q to %s\n", taskName(b.Todo, todoIdx), b.Members[memberIdx].Name)
	return nil
}

// Move transfers task taskNum from one member to another.
func (a *BoardAdapter) Move(ctx context.Context, fromRef, toRef, taskNum string) error {
	b, err := a.service.GetBoard(ctx)
	if err != nil {
		return err
	}
	fromIdx, err := a.resolveMember(ctx, b, fromRef)
	if err != nil {
		return err
	}
	toIdx, err := a.resolveMember(ctx, b, toRef)
	if err != nil {
		return err
	}
	taskIdx, err := parseNumber("task", taskNum)
	if err != nil {
		return err
	}

	err = a.service.TransferTask(ctx, primary.TransferTaskRequest{
		FromMemberIndex: fromIdx,
		ToMemberIndex:   toIdx,
		TaskIndex:       taskIdx,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Moved %q\n", taskName(b.Members[fromIdx].Tasks, taskIdx))
	fmt.Fprintf(a.out, "  %s → %s\n", b.Members[fromIdx].Name, b.Members[toIdx].Name)
	return nil
}

// Return puts a member's task back into todo.
func (a *BoardAdapter) Return(ctx context.Context, memberRef, taskNum string) error {
	b, memberIdx, taskIdx, err := a.memberTask(ctx, memberRef, taskNum)
	if err != nil {
		return err
	}
	if err := a.service.ReturnTask(ctx, primary.MemberTaskRequest{MemberIndex: memberIdx, TaskIndex: taskIdx}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Returned %q to todo\n", taskName(b.Members[memberIdx].Tasks, taskIdx))
	return nil
}

// Complete moves a member's task to the completed log.
func (a *BoardAdapter) Complete(ctx context.Context, memberRef, taskNum string) error {
	b, memberIdx, taskIdx, err := a.memberTask(ctx, memberRef, taskNum)
	if err != nil {
		return err
	}
	if err := a.service.CompleteTask(ctx, primary.MemberTaskRequest{MemberIndex: memberIdx, TaskIndex: taskIdx}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Completed %q\n", taskName(b.Members[memberIdx].Tasks, taskIdx))
	return nil
}

// Restore moves completed task doneNum back to todo.
func (a *BoardAdapter) Restore(ctx context.Context, doneNum string) error {
	b, err := a.service.GetBoard(ctx)
	if err != nil {
		return err
	}
	idx, err := parseNumber("completed task", doneNum)
	if err != nil {
		return err
	}
	if err := a.service.RestoreTask(ctx, idx); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Restored %q to todo\n", taskName(b.Completed, idx))
	return nil
}

// SetAgenda replaces the agenda.
func (a *BoardAdapter) SetAgenda(ctx context.Context, items []string) error {
	if err := a.service.SetAgenda(ctx, items); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Agenda set (%d item(s))\n", len(items))
	return nil
}

// ShowAgenda prints the agenda.
func (a *BoardAdapter) ShowAgenda(ctx context.Context) error {
	b, err := a.service.GetBoard(ctx)
	if err != nil {
		return err
	}
	if len(b.Agenda) == 0 {
		fmt.Fprintln(a.out, "No agenda imported.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Import one:")
		fmt.Fprintln(a.out, "  scrumban agenda import agenda.txt")
		return nil
	}
	a.printAgenda(b.Agenda)
	return nil
}

// SetNotes replaces the general meeting notes.
func (a *BoardAdapter) SetNotes(ctx context.Context, notes string) error {
	if err := a.service.SetNotes(ctx, notes); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "✓ Meeting notes saved")
	return nil
}

// ShowNotes prints the general meeting notes.
func (a *BoardAdapter) ShowNotes(ctx context.Context) error {
	b, err := a.service.GetBoard(ctx)
	if err != nil {
		return err
	}
	if b.Notes == "" {
		fmt.Fprintln(a.out, "No meeting notes yet.")
		return nil
	}
	fmt.Fprintln(a.out, b.Notes)
	return nil
}

// SetMemberNotes replaces one member's questions and concerns.
func (a *BoardAdapter) SetMemberNotes(ctx context.Context, memberRef, notes string) error {
	b, err := a.service.GetBoard(ctx)
	if err != nil {
		return err
	}
	idx, err := a.resolveMember(ctx, b, memberRef)
	if err != nil {
		return err
	}
	if err := a.service.SetMemberNotes(ctx, idx, notes); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "✓ Notes saved for %s\n", b.Members[idx].Name)
	return nil
}

// SendReports emails the meeting report to every member.
func (a *BoardAdapter) SendReports(ctx context.Context, dryRun bool) (*primary.SendReportsResponse, error) {
	resp, err := a.service.SendReports(ctx, primary.SendReportsRequest{DryRun: dryRun})
	if err != nil {
		return nil, err
	}

	switch {
	case dryRun:
		for _, msg := range resp.Messages {
			names := make([]string, len(msg.Attachments))
			for i, att := range msg.Attachments {
				names[i] = att.Filename
			}
			fmt.Fprintf(a.out, "Would send %q to %s <%s> with %s\n", msg.Subject, msg.ToName, msg.To, strings.Join(names, ", "))
		}
	case resp.Skipped:
		fmt.Fprintf(a.out, "⚠ Reports not sent: %s\n", resp.Reason)
	}

	for _, name := range resp.Sent {
		fmt.Fprintf(a.out, "✓ Report sent to %s\n", name)
	}
	for name, reason := range resp.Failed {
		fmt.Fprintf(a.out, "%s Report to %s failed: %s\n", fullColor.Sprint("✗"), name, reason)
	}
	return resp, nil
}

func (a *BoardAdapter) memberTask(ctx context.Context, memberRef, taskNum string) (*primary.Board, int, int, error) {
	b, err := a.service.GetBoard(ctx)
	if err != nil {
		return nil, 0, 0, err
	}
	memberIdx, err := a.resolveMember(ctx, b, memberRef)
	if err != nil {
		return nil, 0, 0, err
	}
	taskIdx, err := parseNumber("task", taskNum)
	if err != nil {
		return nil, 0, 0, err
	}
	return b, memberIdx, taskIdx, nil
}

func (a *BoardAdapter) printTasks(tasks []primary.Task, empty string) {
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, empty)
		return
	}
	for i, t := range tasks {
		fmt.Fprintf(a.out, "  %s\n", formatTask(i+1, t))
	}
}

func (a *BoardAdapter) printAgenda(items []string) {
	fmt.Fprintln(a.out, headingColor.Sprint("Agenda"))
	for i, item := range items {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, item)
	}
}

func formatTask(num int, t primary.Task) string {
	s := fmt.Sprintf("%d. %s [P%d]", num, t.Name, t.Priority)
	if t.DueDate != "" {
		s += " due " + t.DueDate
	}
	if t.CompletedDate != "" {
		s += dimColor.Sprint(" done " + t.CompletedDate)
	}
	return s
}

// capacity renders "(n/limit)", in red when full.
func capacity(n, limit int) string {
	s := fmt.Sprintf("(%d/%d)", n, limit)
	if n >= limit {
		return fullColor.Sprint(s)
	}
	return s
}

// resolveMember accepts a 1-based member number or a name. Names are
// resolved by the service.
func (a *BoardAdapter) resolveMember(ctx context.Context, b *primary.Board, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if n, err := strconv.Atoi(ref); err == nil {
		if n < 1 || n > len(b.Members) {
			return 0, fmt.Errorf("member %d does not exist (board has %d member(s))", n, len(b.Members))
		}
		return n - 1, nil
	}
	return a.service.FindMember(ctx, ref)
}

// parseNumber converts a 1-based number to a 0-based index. Range checks
// are left to the board.
func parseNumber(label, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s number must be a positive integer, got %q", label, s)
	}
	return n - 1, nil
}

func taskName(tasks []primary.Task, idx int) string {
	if idx < 0 || idx >= len(tasks) {
		return ""
	}
	return tasks[idx].Name
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
