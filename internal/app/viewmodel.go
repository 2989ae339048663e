package app

// MinibufferMode is the minibuffer's own small state machine, per
// spec.md §6.
type MinibufferMode int

const (
	MinibufferInactive MinibufferMode = iota
	MinibufferPrompt
	MinibufferMessage
	MinibufferError
)

// BufferView is the read-only snapshot of one buffer for rendering.
type BufferView struct {
	ID          string
	DisplayName string
	Lines       []string
	CursorLine  int
	CursorCol   int
	Modified    bool
}

// MinibufferView is the read-only minibuffer snapshot.
type MinibufferView struct {
	Mode        MinibufferMode
	Prompt      string
	Input       string
	Cursor      int
	Completions []string
}

// ModeLineView is the status-line snapshot.
type ModeLineView struct {
	FileName string
	Modified bool
	Line     int
	Column   int
	Encoding string
}

// SearchStatus mirrors the Search Controller's externally visible
// state, per spec.md §6.
type SearchStatus int

const (
	SearchActive SearchStatus = iota
	SearchWrapped
	SearchNotFound
)

// SearchUIView is present only while a search is active.
type SearchUIView struct {
	PromptLabel     string
	Pattern         string
	Status          SearchStatus
	CurrentMatchIdx int
	TotalMatches    int
	Message         string
}

// ViewModel is the full read-only snapshot HandleEvent produces.
type ViewModel struct {
	Buffers        []BufferView
	ActiveBufferID string
	Minibuffer     MinibufferView
	ModeLine       ModeLineView
	SearchUI       *SearchUIView
}

// UserMessage is a dismissable status or error surfaced to the
// frontend, per spec.md §7's display-duration rule (5s for errors, 3s
// for info; both dismissable by any input — the frontend owns the
// timer, Core only tags the message's kind and duration).
type UserMessage struct {
	Text     string
	IsError  bool
	Duration int // milliseconds
}

// ExternalRequest flags an action spec.md §1/§6 name as an external
// collaborator's responsibility (file I/O, process exit, named-command
// resolution) rather than something Core implements itself.
type ExternalRequest struct {
	Kind string // "find_file", "save_buffer", "quit", "execute_named_command"
}

// Response is HandleEvent's return value: an updated ViewModel, plus
// an optional message and/or a request the frontend must service
// outside the CORE's scope.
type Response struct {
	Model    ViewModel
	Message  *UserMessage
	External *ExternalRequest

	// Fatal is set instead of Message when an error satisfies
	// editor.AsFatal's marker interface, per spec.md §7: the frontend's
	// outermost event loop surfaces this and exits rather than treating
	// it as a dismissable status.
	Fatal *UserMessage
}

func errorMessage(text string) *UserMessage {
	return &UserMessage{Text: text, IsError: true, Duration: 5000}
}

func infoMessage(text string) *UserMessage {
	return &UserMessage{Text: text, IsError: false, Duration: 3000}
}
