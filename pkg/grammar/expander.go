package grammar

import (
	"regexp"
	"strconv"
	"unicode/utf8"
)

const (
	// MaxOutputLength caps the running buffer. Self-amplifying rules such as
	// D->DD inside a loop hit it quickly.
	MaxOutputLength = 1000

	// OutputTooLong replaces the whole output once the cap is exceeded.
	OutputTooLong = "The output gets too long!"

	// MaxErrors stops a loop once its passes have reported this many errors.
	MaxErrors = 1000
)

var loopHeader = regexp.MustCompile(`^\(([0-9]+)\)\{`)

// Expander rewrites a seed string with a static rule table.
//
// Letters are replaced by the first rule whose search string is that letter,
// or kept. The cursor then moves past the inserted text, so a replacement is
// not rewritten again in the same pass. A loop (N){body} rewrites its body N
// times in place, each pass working on the previous pass's output.
type Expander struct {
	errorList
	rules   []Rule
	buf     []byte
	tooLong bool
}

// NewExpander returns an expander for rules.
func NewExpander(rules []Rule) *Expander {
	return &Expander{rules: rules}
}

// Output returns the result of the last Expand.
func (e *Expander) Output() string {
	if e.tooLong {
		return OutputTooLong
	}
	return string(e.buf)
}

// Expand runs the seed through the rule table. Unknown characters are
// reported with their buffer offset and left in place.
func (e *Expander) Expand(seed string) (string, []ParserError) {
	e.reset()
	e.buf = []byte(seed)
	e.tooLong = false

	e.expand(0, false)
	return e.Output(), e.errors
}

// expand scans from offset to the end of the buffer or, when nested, to the
// closing brace of the enclosing loop. It returns the offset it stopped at.
func (e *Expander) expand(offset int, nested bool) int {
	for offset < len(e.buf) {
		if e.overflowed() {
			return len(e.buf)
		}

		c := e.buf[offset]
		switch {
		case isSymbol(c):
			replacement := e.replacement(c)
			e.splice(offset, offset+1, replacement)
			offset += len(replacement)

		case c == '(':
			next, ok := e.loop(offset)
			if !ok {
				e.add(offset, "Could not understand the symbol: %c", c)
				offset++
				continue
			}
			offset = next

		case c == '}':
			if nested {
				return offset
			}
			e.add(offset, "Could not understand the symbol: %c", c)
			offset++

		default:
			r, size := utf8.DecodeRune(e.buf[offset:])
			e.add(offset, "Could not understand the symbol: %c", r)
			offset += size
		}
	}
	e.overflowed()
	return offset
}

// loop expands the loop starting at offset and returns the offset after its
// body. It reports false when offset does not start a loop header.
func (e *Expander) loop(offset int) (int, bool) {
	g := loopHeader.FindSubmatch(e.buf[offset:])
	if g == nil {
		return offset, false
	}
	n, err := strconv.Atoi(string(g[1]))
	if err != nil {
		return offset, false
	}
	e.splice(offset, offset+len(g[0]), "")

	end := offset
	if n == 0 {
		end = e.matchingBrace(offset)
		e.splice(offset, end, "")
		end = offset
	} else {
		// Rules are static, so each pass depends only on the body it starts
		// from. Once an error-free pass repeats an earlier body the remaining
		// passes cycle and only their count modulo the period matters.
		seen := make(map[string]int)
		for i := 0; i < n; i++ {
			reported := len(e.errors)
			end = e.expand(offset, true)
			if e.tooLong {
				return len(e.buf), true
			}
			if len(e.errors) > reported {
				if len(e.errors) >= MaxErrors {
					break
				}
				continue
			}
			body := string(e.buf[offset:end])
			if j, ok := seen[body]; ok {
				i = n - 1 - (n-1-i)%(i-j)
				continue
			}
			seen[body] = i
		}
	}

	if end < len(e.buf) && e.buf[end] == '}' {
		e.splice(end, end+1, "")
	} else {
		e.add(offset, "Missing } for the loop starting here")
	}
	return end, true
}

// matchingBrace returns the offset of the brace closing a loop body that
// starts at offset, or the buffer length when there is none.
func (e *Expander) matchingBrace(offset int) int {
	depth := 0
	for i := offset; i < len(e.buf); i++ {
		switch e.buf[i] {
		case '{':
			depth++
		case '}':
			if depth == 0 {
				return i
			}
			depth--
		}
	}
	return len(e.buf)
}

func (e *Expander) replacement(c byte) string {
	if r, ok := findRule(e.rules, string(c)); ok {
		return r.Replace
	}
	return string(c)
}

// splice replaces buf[from:to] with s.
func (e *Expander) splice(from, to int, s string) {
	tail := append([]byte(s), e.buf[to:]...)
	e.buf = append(e.buf[:from], tail...)
}

// overflowed latches tooLong once the buffer exceeds MaxOutputLength.
func (e *Expander) overflowed() bool {
	if !e.tooLong && len(e.buf) > MaxOutputLength {
		e.tooLong = true
	}
	return e.tooLong
}

func isSymbol(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// Expand is a shorthand for NewExpander(rules).Expand(seed).
func Expand(seed string, rules []Rule) (string, []ParserError) {
	return NewExpander(rules).Expand(seed)
}
