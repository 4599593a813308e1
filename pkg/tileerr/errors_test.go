package tileerr

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestConfigErrorMessage(t *testing.T) {
	err := Config("validate", "subdivisions.x", "must be at least 1, got %d", 0)
	err.Archetype = "straight_wall"

	msg := err.Error()
	for _, want := range []string{"straight_wall", "validate", "subdivisions.x", "got 0"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q missing %q", msg, want)
		}
	}
}

func TestGeometryErrorUnwrap(t *testing.T) {
	cause := errors.New("sin underflow")
	err := &GeometryError{Step: "solve", Message: "degenerate", Cause: cause}
	if !errors.Is(err, cause) {
		t.Error("expected GeometryError to unwrap to its cause")
	}
}

func TestNilReceivers(t *testing.T) {
	var ce *ConfigError
	var ge *GeometryError
	var gap *ClassificationGap
	var ae *AssetError
	for _, e := range []error{ce, ge, gap, ae} {
		if e.Error() != "" {
			t.Errorf("nil %T should render empty", e)
		}
	}
}

func TestAnnotateKeepsType(t *testing.T) {
	inner := Geometry("", "angle", "corner angle %g out of range", 180.0)
	wrapped := fmt.Errorf("recipe: core: %w", inner)

	got := Annotate(wrapped, "l_wall", "core")

	var ge *GeometryError
	if !errors.As(got, &ge) {
		t.Fatalf("annotated error lost its type: %T", got)
	}
	if ge.Archetype != "l_wall" || ge.Step != "core" {
		t.Errorf("got archetype=%q step=%q", ge.Archetype, ge.Step)
	}
}

func TestAnnotateDoesNotOverwrite(t *testing.T) {
	err := &AssetError{Archetype: "curved_wall", Step: "attach", Library: "openlock", ID: "x"}
	_ = Annotate(err, "straight_wall", "base")
	if err.Archetype != "curved_wall" || err.Step != "attach" {
		t.Errorf("Annotate overwrote existing fields: %+v", err)
	}
}

func TestAssetErrorMessage(t *testing.T) {
	err := &AssetError{Library: "openlock", ID: "openlock.wall.cutter.side"}
	if !strings.Contains(err.Error(), "openlock.wall.cutter.side") {
		t.Errorf("unexpected message %q", err.Error())
	}
	err = &AssetError{Library: "/missing.yaml"}
	if !strings.Contains(err.Error(), "unavailable") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestClassificationGapMessage(t *testing.T) {
	err := &ClassificationGap{Archetype: "l_floor", Part: "core", Zones: []string{"Leg 1 Top", "Leg 2 Top"}}
	if !strings.Contains(err.Error(), "Leg 1 Top, Leg 2 Top") {
		t.Errorf("unexpected message %q", err.Error())
	}
}
