// Package tileerr defines the typed failures raised while planning a tile.
// Every failure names the archetype, the build step and, where one is at
// fault, the parameter involved.
package tileerr

import (
	"errors"
	"fmt"
	"strings"
)

// ConfigError reports Parameters rejected before any geometry is traced.
type ConfigError struct {
	Archetype string
	Step      string
	Param     string
	Message   string
}

func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	return format("config error", e.Archetype, e.Step, e.Param, e.Message)
}

// GeometryError reports degenerate geometry from the solver or tracer.
type GeometryError struct {
	Archetype string
	Step      string
	Param     string
	Message   string
	Cause     error
}

func (e *GeometryError) Error() string {
	if e == nil {
		return ""
	}
	msg := format("geometry error", e.Archetype, e.Step, e.Param, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *GeometryError) Unwrap() error { return e.Cause }

// ClassificationGap reports required zones that ended up empty. The part
// is kept; the gap is surfaced by validation.
type ClassificationGap struct {
	Archetype string
	Part      string
	Zones     []string
}

func (e *ClassificationGap) Error() string {
	if e == nil {
		return ""
	}
	return format("classification gap", e.Archetype, "classify", "",
		fmt.Sprintf("part %s: empty zones [%s]", e.Part, strings.Join(e.Zones, ", ")))
}

// AssetError reports a missing cutter library or library entry.
type AssetError struct {
	Archetype string
	Step      string
	Library   string
	ID        string
	Cause     error
}

func (e *AssetError) Error() string {
	if e == nil {
		return ""
	}
	msg := "asset error"
	if e.Archetype != "" {
		msg += " [" + e.Archetype + "]"
	}
	if e.Step != "" {
		msg += " " + e.Step
	}
	if e.ID != "" {
		msg += fmt.Sprintf(": %q not found in library %q", e.ID, e.Library)
	} else {
		msg += fmt.Sprintf(": library %q unavailable", e.Library)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *AssetError) Unwrap() error { return e.Cause }

func format(kind, archetype, step, param, message string) string {
	var b strings.Builder
	b.WriteString(kind)
	if archetype != "" {
		b.WriteString(" [" + archetype + "]")
	}
	if step != "" {
		b.WriteString(" " + step)
	}
	if param != "" {
		b.WriteString(" (" + param + ")")
	}
	b.WriteString(": ")
	b.WriteString(message)
	return b.String()
}

// Config returns a ConfigError for a bad parameter value.
func Config(step, param, format string, args ...any) *ConfigError {
	return &ConfigError{Step: step, Param: param, Message: fmt.Sprintf(format, args...)}
}

// Geometry returns a GeometryError for degenerate geometry.
func Geometry(step, param, format string, args ...any) *GeometryError {
	return &GeometryError{Step: step, Param: param, Message: fmt.Sprintf(format, args...)}
}

// Annotate fills in the archetype, and the step when blank, on a typed
// failure found in err's chain. The failure keeps its type; anything else
// is returned as is.
func Annotate(err error, archetype, step string) error {
	if err == nil {
		return nil
	}
	var ce *ConfigError
	var ge *GeometryError
	var ae *AssetError
	var gap *ClassificationGap
	switch {
	case errors.As(err, &ce):
		fill(&ce.Archetype, archetype)
		fill(&ce.Step, step)
	case errors.As(err, &ge):
		fill(&ge.Archetype, archetype)
		fill(&ge.Step, step)
	case errors.As(err, &ae):
		fill(&ae.Archetype, archetype)
		fill(&ae.Step, step)
	case errors.As(err, &gap):
		fill(&gap.Archetype, archetype)
	}
	return err
}

func fill(field *string, v string) {
	if *field == "" {
		*field = v
	}
}
