package prefs

import "fmt"

// SyntaxError reports a malformed statement with its source location. In
// lenient mode syntax errors are downgraded to ParseWarnings; ParseStrict
// surfaces the first one as the terminal error.
type SyntaxError struct {
	Line    int
	Column  int
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d: %s", e.Line, e.Column, e.Message)
}

// ParseWarning records a statement that was skipped during lenient parsing.
type ParseWarning struct {
	// Line is the 1-based line where the malformed statement began.
	Line int
	// Snippet is the source line text, trimmed.
	Snippet string
	// Message describes what was wrong.
	Message string
}

func (w ParseWarning) String() string {
	if w.Snippet == "" {
		return fmt.Sprintf("line %d: %s", w.Line, w.Message)
	}
	return fmt.Sprintf("line %d: %s (near %q)", w.Line, w.Message, w.Snippet)
}
