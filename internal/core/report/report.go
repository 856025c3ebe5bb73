// Package report renders the end-of-meeting report sent to each member.
// This is part of the Functional Core - no I/O, only pure functions.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/scrumban/internal/core/board"
)

const (
	isoDate = "2006-01-02"
	rule    = "*********************************************\n"
)

// Input contains everything one member's report shows.
type Input struct {
	Date         time.Time
	Member       board.Member
	GeneralNotes string
}

// Build renders the member's report.
func Build(in Input) string {
	var b strings.Builder
	name := in.Member.Name()

	fmt.Fprintf(&b, "Scrumban Meeting Report For %s\n", in.Date.Format(isoDate))
	fmt.Fprintf(&b, "Report Generated for %s\n", name)
	b.WriteString(rule)
	b.WriteString("Your Task Breakdown:\n\n")

	tasks := in.Member.Tasks()
	if len(tasks) == 0 {
		b.WriteString("No tasks currently assigned\n\n")
	}
	for i, t := range tasks {
		fmt.Fprintf(&b, "Task #%d\n", i+1)
		fmt.Fprintf(&b, "Task Name: %s\n", t.Name())
		fmt.Fprintf(&b, "Task Priority: %d\n", t.Priority())
		fmt.Fprintf(&b, "Due Date: %s\n\n", t.DueDate())
	}

	b.WriteString(rule)
	fmt.Fprintf(&b, "%s's Questions and Concerns:\n", name)
	fmt.Fprintf(&b, "%s\n", in.Member.Notes())
	b.WriteString(rule)
	b.WriteString("General Meeting Notes:\n\n")
	fmt.Fprintf(&b, "%s\n", in.GeneralNotes)
	b.WriteString(rule)

	return b.String()
}

// Summary is the short message body that accompanies the attached report.
func Summary(date time.Time, memberName string) string {
	return fmt.Sprintf("Scrumban Meeting Report For %s\nReport Generated for %s\n", date.Format(isoDate), memberName)
}

// Subject returns the email subject for a meeting date.
func Subject(date time.Time) string {
	return "Meeting Report " + date.Format(isoDate)
}

// ReportFilename names the attached per-member report.
func ReportFilename(date time.Time, memberName string) string {
	return fmt.Sprintf("Report_%s_%s.txt", date.Format(isoDate), memberName)
}

// CompletedFilename names the attached completed-task log.
func CompletedFilename(date time.Time) string {
	return fmt.Sprintf("Completed_Tasks_%s.csv", date.Format(isoDate))
}
