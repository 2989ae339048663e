package replace

import "errors"

var (
	// ErrNotActive is returned by Accept, Skip, AcceptAll, Cancel and
	// UndoLast when no plan is in progress.
	ErrNotActive = errors.New("replace: no plan in progress")

	// ErrDone is returned by Accept and Skip once the plan has been
	// fully walked.
	ErrDone = errors.New("replace: plan already complete")

	// ErrNothingAccepted is returned by UndoLast when no replacement in
	// the current plan has been accepted yet.
	ErrNothingAccepted = errors.New("replace: nothing accepted to undo")

	// ErrPatternEmpty is returned by Start and StartRegex for an empty
	// search pattern.
	ErrPatternEmpty = errors.New("replace: pattern is empty")
)
