package ai

import "context"

// Result is the outcome of a single completion request. A request either
// produced usable text or it did not; errors, timeouts and empty model
// output all collapse into the unavailable case so call sites can fall
// back to deterministic text without inspecting the cause.
type Result struct {
	Text      string
	Available bool
}

// Ok wraps usable completion text.
func Ok(text string) Result {
	return Result{Text: text, Available: true}
}

// Unavailable reports that no usable completion was produced.
func Unavailable() Result {
	return Result{}
}

// Completer is the text-completion collaborator. Implementations must never
// block progress indefinitely; a failed call is reported via the Result, not
// an error, and is not retried.
type Completer interface {
	Complete(ctx context.Context, prompt string) Result
}
