package graph

import (
	"errors"
	"fmt"
)

// ErrInvalidNetwork is wrapped by ValidationResult.Err.
var ErrInvalidNetwork = errors.New("graph: invalid network")

// ValidationSeverity indicates whether a finding blocks export or is merely
// informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks export
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding. Mass and Spring are
// -1 when the finding is graph-level.
type ValidationError struct {
	Mass     int
	Spring   int
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	switch {
	case e.Spring >= 0:
		return fmt.Sprintf("[%s] spring %d: %s", e.Severity, e.Spring, e.Message)
	case e.Mass >= 0:
		return fmt.Sprintf("[%s] mass %d: %s", e.Severity, e.Mass, e.Message)
	default:
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
}

// ValidationResult bundles blocking errors and advisory warnings.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no blocking errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Err returns nil when the result is OK, otherwise an error wrapping
// ErrInvalidNetwork that names the first finding.
func (r ValidationResult) Err() error {
	switch len(r.Errors) {
	case 0:
		return nil
	case 1:
		return fmt.Errorf("%w: %v", ErrInvalidNetwork, r.Errors[0])
	default:
		return fmt.Errorf("%w: %v (and %d more)", ErrInvalidNetwork, r.Errors[0], len(r.Errors)-1)
	}
}

// Validate runs the structural and geometric checks and separates errors
// from warnings. It never mutates the graph.
func Validate(g *NetworkGraph) ValidationResult {
	var findings []ValidationError
	findings = append(findings, validateEndpoints(g)...)
	findings = append(findings, validateDuplicates(g)...)
	findings = append(findings, validateSkeleton(g)...)
	findings = append(findings, validateGeometry(g)...)

	var result ValidationResult
	for _, f := range findings {
		if f.Severity == SeverityWarning {
			result.Warnings = append(result.Warnings, f)
		} else {
			result.Errors = append(result.Errors, f)
		}
	}
	return result
}

// validateEndpoints checks that every spring joins two distinct masses of
// this graph. An exporter cannot resolve indices otherwise.
func validateEndpoints(g *NetworkGraph) []ValidationError {
	var errs []ValidationError
	for i, s := range g.springs {
		if !g.Contains(s.Source) || !g.Contains(s.Destination) {
			errs = append(errs, ValidationError{
				Mass: -1, Spring: i,
				Message:  "spring references a mass outside the graph",
				Severity: SeverityError,
			})
			continue
		}
		if s.Source == s.Destination {
			errs = append(errs, ValidationError{
				Mass: -1, Spring: i,
				Message:  "spring connects a mass to itself",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateDuplicates flags parallel springs between the same pair of masses.
func validateDuplicates(g *NetworkGraph) []ValidationError {
	type pair struct{ a, b *Mass }
	seen := make(map[pair]int)
	var errs []ValidationError

	for i, s := range g.springs {
		key := pair{s.Source, s.Destination}
		if g.Contains(s.Source) && g.Contains(s.Destination) && g.Index(s.Source) > g.Index(s.Destination) {
			key = pair{s.Destination, s.Source}
		}
		if first, dup := seen[key]; dup {
			errs = append(errs, ValidationError{
				Mass: -1, Spring: i,
				Message:  fmt.Sprintf("duplicate of spring %d", first),
				Severity: SeverityWarning,
			})
			continue
		}
		seen[key] = i
	}
	return errs
}

// validateSkeleton warns when the arm is incomplete or has no inputs.
func validateSkeleton(g *NetworkGraph) []ValidationError {
	var warnings []ValidationError
	for _, t := range []MassType{MassShoulder, MassElbow, MassHand} {
		if g.firstOfType(t) == nil {
			warnings = append(warnings, ValidationError{
				Mass: -1, Spring: -1,
				Message:  fmt.Sprintf("no %s mass defined", t),
				Severity: SeverityWarning,
			})
		}
	}
	if len(g.Inputs()) == 0 {
		warnings = append(warnings, ValidationError{
			Mass: -1, Spring: -1,
			Message:  "no input masses defined",
			Severity: SeverityWarning,
		})
	}
	return warnings
}

// validateGeometry warns about zero-length springs and crossing network
// springs.
func validateGeometry(g *NetworkGraph) []ValidationError {
	var warnings []ValidationError
	for i, s := range g.springs {
		if s.Source != s.Destination && s.Length() < ConnectedTolerance {
			warnings = append(warnings, ValidationError{
				Mass: -1, Spring: i,
				Message:  "spring has zero length",
				Severity: SeverityWarning,
			})
		}
	}
	for i := 0; i < len(g.springs); i++ {
		a := g.springs[i]
		if a.ConnectionType() != ConnectionSpring {
			continue
		}
		for j := i + 1; j < len(g.springs); j++ {
			b := g.springs[j]
			if b.ConnectionType() != ConnectionSpring {
				continue
			}
			if a.Crosses(b) {
				warnings = append(warnings, ValidationError{
					Mass: -1, Spring: i,
					Message:  fmt.Sprintf("crosses spring %d", j),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return warnings
}
