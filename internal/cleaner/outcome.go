package cleaner

import (
	"fmt"
	"os"

	"github.com/devtrim/devtrim/internal/scanner"
)

// FailureReason categorizes why a single deletion failed.
type FailureReason int

const (
	ReasonNone FailureReason = iota
	// ReasonBlocked means the safety gate refused the path. Selections are
	// supposed to be gate-clean, so this signals a caller bug, not an
	// environmental failure.
	ReasonBlocked
	// ReasonPermissionDenied is surfaced distinctly so the summary can
	// tell the user which items they lacked rights to remove.
	ReasonPermissionDenied
	ReasonOther
)

func (r FailureReason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonBlocked:
		return "blocked by safety check"
	case ReasonPermissionDenied:
		return "permission denied"
	default:
		return "failed"
	}
}

// Outcome is the per-path result of one cleanup attempt.
type Outcome struct {
	Path     string
	Size     int64
	Category scanner.Category
	Success  bool
	Reason   FailureReason
	Err      error
}

// Message renders a one-line description for the failure list.
func (o Outcome) Message() string {
	if o.Success {
		return o.Path
	}
	if o.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", o.Path, o.Reason, o.Err)
	}
	return fmt.Sprintf("%s: %s", o.Path, o.Reason)
}

// classifyMove maps a trash-move error onto the outcome taxonomy. A path
// that no longer exists already is the desired end state, so it counts as
// success.
func classifyMove(err error) (success bool, reason FailureReason, outErr error) {
	switch {
	case err == nil:
		return true, ReasonNone, nil
	case os.IsNotExist(err):
		return true, ReasonNone, nil
	case os.IsPermission(err):
		return false, ReasonPermissionDenied, err
	default:
		return false, ReasonOther, err
	}
}
