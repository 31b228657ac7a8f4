package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/rct/pkg/grammar"
	"github.com/chazu/rct/pkg/graph"
	"github.com/chazu/rct/pkg/growth"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Source preprocessing
// ---------------------------------------------------------------------------

// preprocessSource transforms script source before passing it to zygomys.
// It performs three transformations:
//
//  1. Keyword conversion: :keyword -> "__kw_keyword" (string literal)
//  2. Kebab-case to underscore: random-seed -> random_seed
//     zygomys reads a hyphen between identifiers as subtraction.
//  3. ; line comments -> // line comments
//
// All of them respect string literal boundaries.
func preprocessSource(source string) string {
	result := make([]byte, 0, len(source)+len(source)/4)
	b := []byte(source)
	i := 0
	for i < len(b) {
		// Skip double-quoted string literals.
		if b[i] == '"' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '"' {
				if b[i] == '\\' && i+1 < len(b) {
					result = append(result, b[i], b[i+1])
					i += 2
					continue
				}
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		// Skip backtick-quoted string literals. Grammars usually live here.
		if b[i] == '`' {
			result = append(result, b[i])
			i++
			for i < len(b) && b[i] != '`' {
				result = append(result, b[i])
				i++
			}
			if i < len(b) {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ';' {
			result = append(result, '/', '/')
			i++
			for i < len(b) && b[i] == ';' {
				i++
			}
			for i < len(b) && b[i] != '\n' {
				result = append(result, b[i])
				i++
			}
			continue
		}
		if b[i] == ':' && i+1 < len(b) {
			// Preserve := (assignment operator).
			if b[i+1] == '=' {
				result = append(result, b[i], b[i+1])
				i += 2
				continue
			}
			if isLetter(b[i+1]) {
				j := i + 1
				for j < len(b) && isKWChar(b[j]) {
					j++
				}
				result = append(result, '"')
				result = append(result, kwPrefix...)
				result = append(result, b[i+1:j]...)
				result = append(result, '"')
				i = j
				continue
			}
		}
		// Only when the hyphen sits between identifier characters.
		if b[i] == '-' && i > 0 && i+1 < len(b) &&
			isIdentChar(b[i-1]) && isLetter(b[i+1]) {
			result = append(result, '_')
			i++
			continue
		}
		result = append(result, b[i])
		i++
	}
	return string(result)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}

// ---------------------------------------------------------------------------
// Keyword argument parsing
// ---------------------------------------------------------------------------

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

// kwArgs holds the result of parsing a mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if !ok {
			result.positional = append(result.positional, args[i])
			i++
			continue
		}
		if i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
		} else {
			result.kw[name] = zygo.SexpNull
			i++
		}
	}
	return result
}

// ---------------------------------------------------------------------------
// Value extraction helpers
// ---------------------------------------------------------------------------

func toInt(s zygo.Sexp) (int64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return v.Val, nil
	case *zygo.SexpFloat:
		if v.Val == float64(int64(v.Val)) {
			return int64(v.Val), nil
		}
	}
	return 0, fmt.Errorf("expected integer, got %T (%s)", s, s.SexpString(nil))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

func intSexp(n int) zygo.Sexp {
	return &zygo.SexpInt{Val: int64(n)}
}

// ---------------------------------------------------------------------------
// Session
// ---------------------------------------------------------------------------

// session is the pipeline state of one evaluation.
type session struct {
	model        *grammar.Model
	construction string
	seed         *int64
	warnings     []EvalWarning
}

func newSession(seed *int64) *session {
	s := &session{}
	if seed != nil {
		v := *seed
		s.seed = &v
	}
	return s
}

func (s *session) warn(stage string, errs []grammar.ParserError) {
	for _, e := range errs {
		s.warnings = append(s.warnings, EvalWarning{Stage: stage, Line: e.Line, Message: e.Message})
	}
}

func (s *session) graph() *graph.NetworkGraph {
	if s.model == nil {
		return graph.New()
	}
	return s.model.Graph
}

func (s *session) requireModel(builtin string) error {
	if s.model == nil {
		return fmt.Errorf("%s: no grammar loaded, call (grammar text) first", builtin)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the pipeline builtins into a zygomys environment.
//
// Source code must be preprocessed with preprocessSource() before evaluation so
// that kebab-case names and :keyword tokens are recognizable.
func registerBuiltins(env *zygo.Zlisp, s *session) {

	// -----------------------------------------------------------------------
	// (grammar text) -> number of grammar errors
	// -----------------------------------------------------------------------
	env.AddFunction("grammar", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("grammar requires exactly 1 argument, got %d", len(args))
		}
		text, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("grammar: %w", err)
		}
		model, errs := grammar.Parse(text)
		s.model = model
		s.construction = ""
		s.warn("grammar", errs)
		return intSexp(len(errs)), nil
	})

	// -----------------------------------------------------------------------
	// (expand "seed") -> construction program
	// -----------------------------------------------------------------------
	env.AddFunction("expand", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := s.requireModel("expand"); err != nil {
			return zygo.SexpNull, err
		}
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("expand requires exactly 1 argument, got %d", len(args))
		}
		seed, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("expand: %w", err)
		}
		out, errs := grammar.Expand(seed, s.model.ProductionRules)
		s.construction = out
		s.warn("expand", errs)
		return &zygo.SexpStr{S: out}, nil
	})

	// -----------------------------------------------------------------------
	// (develop construction :random-masses 5 :random-springs 10) -> spring count
	// -----------------------------------------------------------------------
	env.AddFunction("develop", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if err := s.requireModel("develop"); err != nil {
			return zygo.SexpNull, err
		}
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("develop requires a construction string")
		}
		construction, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("develop: %w", err)
		}
		if v, ok := pa.kw["random-masses"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("develop: random-masses: %w", err)
			}
			s.model.RandomMasses = int(n)
		}
		if v, ok := pa.kw["random-springs"]; ok {
			n, err := toInt(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("develop: random-springs: %w", err)
			}
			s.model.RandomSprings = int(n)
		}

		var opts []growth.Option
		if s.seed != nil {
			opts = append(opts, growth.WithSeed(*s.seed))
		}
		errs := growth.Develop(s.model, construction, opts...)
		s.construction = construction
		s.warn("develop", errs)
		return intSexp(s.model.Graph.SpringCount()), nil
	})

	// -----------------------------------------------------------------------
	// (random-seed 42)
	// -----------------------------------------------------------------------
	env.AddFunction("random_seed", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("random-seed requires exactly 1 argument, got %d", len(args))
		}
		n, err := toInt(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("random-seed: %w", err)
		}
		s.seed = &n
		return args[0], nil
	})

	env.AddFunction("mass_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return intSexp(s.graph().MassCount()), nil
	})

	env.AddFunction("spring_count", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		return intSexp(s.graph().SpringCount()), nil
	})

	// -----------------------------------------------------------------------
	// (errors) -> list of "stage line: message" strings
	// -----------------------------------------------------------------------
	env.AddFunction("errors", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		items := make([]zygo.Sexp, 0, len(s.warnings))
		for _, w := range s.warnings {
			items = append(items, &zygo.SexpStr{S: w.String()})
		}
		return zygo.MakeList(items), nil
	})
}
