package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"tasklist/internal/service"
)

// TaskRef is a parsed task reference: either a 1-based position in the
// list as printed by `tasklist list`, or an exact task ID. A reference made
// of digits may be either; Resolve prefers a task whose ID matches it.
type TaskRef struct {
	Num int    // 1-based position, 0 when ID is set
	ID  string // exact identifier

	digits string // the raw digits of a numeric reference
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the first argument as a task reference.
// Digits are a position or a numeric ID; anything else is an ID.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	raw := strings.TrimSpace(args[0])
	if raw == "" {
		return TaskRef{}, ErrTaskRefRequired
	}

	if isAllDigits(raw) {
		// Too large for a position, but it may still be an ID.
		num, err := strconv.Atoi(raw)
		if err != nil {
			num = 0
		}
		return TaskRef{Num: num, digits: raw}, nil
	}
	return TaskRef{ID: raw}, nil
}

// IsID reports whether the reference can only name a task by ID, so it can
// be used without fetching the list.
func (r TaskRef) IsID() bool {
	return r.ID != ""
}

// Resolve finds the referenced task in tasks.
func (r TaskRef) Resolve(tasks []service.Task) (service.Task, error) {
	if r.ID != "" {
		for _, t := range tasks {
			if t.ID == r.ID {
				return t, nil
			}
		}
		return service.Task{}, fmt.Errorf("task not found: %s", r.ID)
	}
	if r.digits != "" {
		for _, t := range tasks {
			if t.ID == r.digits {
				return t, nil
			}
		}
	}
	if r.Num < 1 || r.Num > len(tasks) {
		return service.Task{}, fmt.Errorf("task number out of range: %s", r.label())
	}
	return tasks[r.Num-1], nil
}

func (r TaskRef) label() string {
	if r.digits != "" {
		return r.digits
	}
	return strconv.Itoa(r.Num)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
