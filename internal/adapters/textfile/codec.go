// Package textfile stores the board as line-oriented text files: one
// comma-separated record per line, members carrying their tasks as a
// ";"-joined list of tab-delimited triples.
package textfile

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/example/scrumban/internal/ports/secondary"
)

const (
	completedTitle  = "Completed Tasks as of "
	completedHeader = "Task Name, Task Priority, Due Date, Completion Date"
)

var (
	notesEscaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "\r", "")
	notesUnescaper = strings.NewReplacer(`\\`, `\`, `\n`, "\n")
)

// ParseTasks reads backlog or todo lines: name, priority, due date.
// Blank lines are skipped and fields are trimmed.
func ParseTasks(r io.Reader, path string) ([]secondary.TaskRecord, error) {
	var tasks []secondary.TaskRecord
	err := eachLine(r, func(lineNo int, line string) error {
		rec, err := parseTask(strings.Split(line, ","))
		if err != nil {
			return &ValidationError{Path: path, Line: lineNo, Reason: err.Error()}
		}
		tasks = append(tasks, rec)
		return nil
	})
	return tasks, err
}

// ParseCompleted reads the completed log, skipping its two header lines.
func ParseCompleted(r io.Reader, path string) ([]secondary.TaskRecord, error) {
	var tasks []secondary.TaskRecord
	err := eachLine(r, func(lineNo int, line string) error {
		if strings.HasPrefix(line, completedTitle) || line == completedHeader {
			return nil
		}
		rec, err := parseTask(strings.Split(line, ","))
		if err != nil {
			return &ValidationError{Path: path, Line: lineNo, Reason: err.Error()}
		}
		tasks = append(tasks, rec)
		return nil
	})
	return tasks, err
}

// ParseMembers reads member lines: name, email[, task blob[, notes]].
func ParseMembers(r io.Reader, path string) ([]secondary.MemberRecord, error) {
	var members []secondary.MemberRecord
	err := eachLine(r, func(lineNo int, line string) error {
		fields := strings.SplitN(line, ",", 4)
		if len(fields) < 2 {
			return &ValidationError{Path: path, Line: lineNo, Reason: "expected name and email"}
		}

		rec := secondary.MemberRecord{
			Name:  strings.TrimSpace(fields[0]),
			Email: strings.TrimSpace(fields[1]),
		}
		if len(fields) > 2 {
			tasks, err := parseTaskBlob(strings.TrimSpace(fields[2]))
			if err != nil {
				return &ValidationError{Path: path, Line: lineNo, Reason: err.Error()}
			}
			rec.Tasks = tasks
		}
		if len(fields) > 3 {
			rec.Notes = notesUnescaper.Replace(strings.TrimSpace(fields[3]))
		}
		members = append(members, rec)
		return nil
	})
	return members, err
}

// ParseAgenda reads one agenda item per non-blank line.
func ParseAgenda(r io.Reader) ([]string, error) {
	var items []string
	err := eachLine(r, func(_ int, line string) error {
		items = append(items, line)
		return nil
	})
	return items, err
}

// EncodeTasks writes backlog or todo records, one per line.
func EncodeTasks(tasks []secondary.TaskRecord) []byte {
	var buf bytes.Buffer
	for _, t := range tasks {
		buf.WriteString(joinFields(recordFields(t)))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// EncodeCompleted writes the completed log with its header lines.
// It satisfies secondary.CompletedEncoder.
func EncodeCompleted(asOf time.Time, rows [][]string) []byte {
	var buf bytes.Buffer
	buf.WriteString(completedTitle + asOf.Format("2006-01-02") + "\n")
	buf.WriteString(completedHeader + "\n")
	for _, row := range rows {
		buf.WriteString(joinFields(row))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// EncodeMembers writes member records, one per line.
func EncodeMembers(members []secondary.MemberRecord) []byte {
	var buf bytes.Buffer
	for _, m := range members {
		parts := make([]string, len(m.Tasks))
		for i, t := range m.Tasks {
			parts[i] = strings.Join([]string{t.Name, strconv.Itoa(t.Priority), t.DueDate}, "\t")
		}
		blob := strings.Join(parts, ";")
		notes := notesEscaper.Replace(strings.TrimSpace(m.Notes))

		buf.WriteString(strings.TrimSpace(m.Name) + ", " + strings.TrimSpace(m.Email))
		switch {
		case notes != "":
			buf.WriteString(", " + blob + ", " + notes)
		case blob != "":
			buf.WriteString(", " + blob)
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// EncodeAgenda writes one agenda item per line.
func EncodeAgenda(items []string) []byte {
	var buf bytes.Buffer
	for _, item := range items {
		buf.WriteString(strings.ReplaceAll(item, "\n", " "))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// RecordRows converts records to field rows for EncodeCompleted.
func RecordRows(tasks []secondary.TaskRecord) [][]string {
	rows := make([][]string, len(tasks))
	for i, t := range tasks {
		rows[i] = recordFields(t)
	}
	return rows
}

func recordFields(t secondary.TaskRecord) []string {
	return []string{t.Name, strconv.Itoa(t.Priority), t.DueDate, t.CompletedDate}
}

// joinFields joins non-blank fields with ", ".
func joinFields(fields []string) string {
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			kept = append(kept, f)
		}
	}
	return strings.Join(kept, ", ")
}

// parseTask reads name, priority and the optional due and completion dates.
func parseTask(fields []string) (secondary.TaskRecord, error) {
	if len(fields) < 2 {
		return secondary.TaskRecord{}, fmt.Errorf("expected name and priority, got %d field(s)", len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	// Names end up inside tab and semicolon delimited member blobs.
	if strings.ContainsAny(fields[0], "\t;") {
		return secondary.TaskRecord{}, fmt.Errorf("task name %q contains a tab or semicolon", fields[0])
	}

	priority, err := strconv.Atoi(fields[1])
	if err != nil {
		return secondary.TaskRecord{}, fmt.Errorf("priority %q is not an integer", fields[1])
	}

	rec := secondary.TaskRecord{
		Name:     fields[0],
		Priority: priority,
	}
	if len(fields) > 2 {
		rec.DueDate = fields[2]
	}
	if len(fields) > 3 {
		rec.CompletedDate = fields[3]
	}
	return rec, nil
}

func parseTaskBlob(blob string) ([]secondary.TaskRecord, error) {
	if blob == "" {
		return nil, nil
	}
	var tasks []secondary.TaskRecord
	for _, part := range strings.Split(blob, ";") {
		rec, err := parseTask(strings.Split(part, "\t"))
		if err != nil {
			return nil, fmt.Errorf("member task %q: %w", part, err)
		}
		// Member tasks are never completed.
		rec.CompletedDate = ""
		tasks = append(tasks, rec)
	}
	return tasks, nil
}

func eachLine(r io.Reader, fn func(lineNo int, line string) error) error {
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if err := fn(lineNo, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read lines: %w", err)
	}
	return nil
}
