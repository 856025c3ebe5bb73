package textfile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/example/scrumban/internal/ports/secondary"
)

var (
	taskLinePattern   = regexp.MustCompile(`^[A-Za-z0-9 -]+,\s*[0-9]+,\s*[0-9]+/[0-9]+/[0-9]+\s*$`)
	memberLinePattern = regexp.MustCompile(`^[A-Za-z -]+,\s*[A-Za-z0-9.-]+@[A-Za-z0-9.]+\s*$`)
)

// ValidationError reports a file that does not match its record format.
// Line is 1-based; zero means the problem concerns the whole file.
type ValidationError struct {
	Path   string
	Line   int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("%s: line %d: %s", e.Path, e.Line, e.Reason)
}

// Is makes errors.Is(err, secondary.ErrValidation) hold.
func (e *ValidationError) Is(target error) bool {
	return target == secondary.ErrValidation
}

// ValidateTaskFile checks a project backlog file: it must be non-empty and
// every line must read "name, priority, M/D/YYYY".
func ValidateTaskFile(path string) error {
	return validateFile(path, "project backlog", taskLinePattern)
}

// ValidateMemberFile checks a members file: it must be non-empty and every
// line must read "name, email".
func ValidateMemberFile(path string) error {
	return validateFile(path, "members", memberLinePattern)
}

func validateFile(path, kind string, pattern *regexp.Regexp) error {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: invalid file path for %s file: %s", secondary.ErrResourceUnavailable, kind, path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return &ValidationError{Path: path, Reason: "file is a directory"}
	}
	if info.Size() == 0 {
		return &ValidationError{Path: path, Reason: "file is empty"}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return &ValidationError{Path: path, Reason: fmt.Sprintf("invalid file encoding for %s file", kind)}
	}

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	for i, line := range lines {
		if !pattern.MatchString(strings.TrimSuffix(line, "\r")) {
			return &ValidationError{Path: path, Line: i + 1, Reason: fmt.Sprintf("error on line %d in %s file", i+1, kind)}
		}
	}
	return nil
}
