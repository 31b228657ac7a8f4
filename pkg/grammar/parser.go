// Package grammar parses the growth DSL and expands seed strings into
// construction programs.
//
// Two parsers live here. GrammarParser reads the line-oriented DSL that
// declares the arm skeleton, the creation templates and the production rules.
// Expander rewrites a seed with those production rules. Both report problems
// in the user's text as ParserError values instead of Go errors: a run always
// completes and returns whatever it could make sense of.
package grammar

import (
	"fmt"
	"strings"
)

// ParserError points at a problem in user-supplied text. Line is the line
// index for the DSL parser and the buffer offset for the expander.
type ParserError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

func (e ParserError) Error() string {
	return fmt.Sprintf("%d: %s", e.Line, e.Message)
}

// Parser is implemented by GrammarParser and Expander. Errors returns the
// findings of the most recent run.
type Parser interface {
	Errors() []ParserError
	HasErrors() bool
}

// errorList is embedded by both parsers.
type errorList struct {
	errors []ParserError
}

func (l *errorList) reset() {
	l.errors = []ParserError{}
}

func (l *errorList) add(line int, format string, args ...any) {
	l.errors = append(l.errors, ParserError{Line: line, Message: fmt.Sprintf(format, args...)})
}

// Errors returns the errors of the last run, never nil after a run.
func (l *errorList) Errors() []ParserError {
	return l.errors
}

// HasErrors reports whether the last run produced errors.
func (l *errorList) HasErrors() bool {
	return len(l.errors) > 0
}

func isEmpty(line string) bool {
	return strings.TrimSpace(line) == ""
}

func isComment(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}
