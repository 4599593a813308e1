package tile

import (
	"errors"
	"fmt"

	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/tileerr"
	"github.com/chazu/tilesmith/pkg/zone"
)

// Severity indicates whether a finding rejects the tile or is advisory.
type Severity int

const (
	SeverityError   Severity = iota // rejects the tile
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding is a single validation result.
type Finding struct {
	Part     string
	Message  string
	Severity Severity
	Err      error // typed cause, when there is one
}

func (f Finding) Error() string {
	if f.Part == "" {
		return fmt.Sprintf("[%s] %s", f.Severity, f.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", f.Severity, f.Part, f.Message)
}

func (f Finding) Unwrap() error { return f.Err }

// Report separates blocking findings from advisory ones.
type Report struct {
	Errors   []Finding
	Warnings []Finding
}

// OK reports whether nothing blocks the tile.
func (r Report) OK() bool { return len(r.Errors) == 0 }

// Err joins the blocking findings, or returns nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i, f := range r.Errors {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// Gaps returns the classification gaps among the findings.
func (r Report) Gaps() []*tileerr.ClassificationGap {
	var out []*tileerr.ClassificationGap
	for _, f := range append(append([]Finding(nil), r.Errors...), r.Warnings...) {
		var gap *tileerr.ClassificationGap
		if errors.As(f.Err, &gap) {
			out = append(out, gap)
		}
	}
	return out
}

// Validate runs every check on t. It never modifies the tile.
//
// Tier 1 is structural: parts exist, meshes have faces and finite
// coordinates. Tier 2 is geometric: meshes are closed and consistently
// wound and enabled cutters produce at least one copy. Tier 3 is the
// material contract: required zones are populated. Gaps are reported as
// warnings so the tile stays usable while the missing zones are listed.
func Validate(t *Tile) Report {
	var r Report
	add := func(f Finding) {
		if f.Severity == SeverityWarning {
			r.Warnings = append(r.Warnings, f)
		} else {
			r.Errors = append(r.Errors, f)
		}
	}
	for _, f := range validateStructure(t) {
		add(f)
	}
	for _, f := range validateGeometry(t) {
		add(f)
	}
	for _, f := range validateZones(t) {
		add(f)
	}
	return r
}

func validateStructure(t *Tile) []Finding {
	var out []Finding
	if t.Base == nil {
		out = append(out, Finding{Message: "tile has no base", Severity: SeverityError})
	}
	if t.Core == nil && t.Params.CoreBlueprint != params.None {
		out = append(out, Finding{Message: "tile has no core", Severity: SeverityError})
	}
	for _, p := range t.Parts() {
		if p.IsEmpty() {
			if p.Kind == Base && t.Params.BaseBlueprint == params.None {
				continue
			}
			out = append(out, Finding{Part: p.Name, Message: "part has no geometry", Severity: SeverityError})
			continue
		}
		if err := p.Mesh.Validate(); err != nil {
			out = append(out, Finding{Part: p.Name, Message: err.Error(), Severity: SeverityError, Err: err})
		}
	}
	return out
}

func validateGeometry(t *Tile) []Finding {
	var out []Finding
	for _, p := range t.Parts() {
		if p.IsEmpty() {
			continue
		}
		if err := p.Mesh.CheckManifold(); err != nil {
			out = append(out, Finding{Part: p.Name, Message: err.Error(), Severity: SeverityError, Err: err})
		} else if p.Mesh.NeedsRepair() {
			out = append(out, Finding{Part: p.Name, Message: "triangulated mesh needs repair", Severity: SeverityWarning})
		}
		for _, c := range p.Cutters.Enabled() {
			if len(c.Transforms()) == 0 {
				out = append(out, Finding{
					Part:     p.Name,
					Message:  fmt.Sprintf("cutter %q produces no copies", c.Name),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return out
}

func validateZones(t *Tile) []Finding {
	var out []Finding
	for _, p := range []*Part{t.Core, t.Displaced} {
		if p == nil || len(p.Missing) == 0 {
			continue
		}
		gap := &tileerr.ClassificationGap{
			Archetype: t.Archetype.String(),
			Part:      p.Name,
			Zones:     zone.Names(p.Missing),
		}
		out = append(out, Finding{Part: p.Name, Message: gap.Error(), Severity: SeverityWarning, Err: gap})
	}
	return out
}
