package params

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/tilesmith/pkg/tileerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultsValidate(t *testing.T) {
	for _, a := range Archetypes() {
		t.Run(a.String(), func(t *testing.T) {
			require.NoError(t, Defaults(a).Validate(a))
		})
	}
}

func TestArchetypeNames(t *testing.T) {
	for _, a := range Archetypes() {
		got, err := ParseArchetype(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseArchetype("round_tower")
	assert.Error(t, err)
	assert.Equal(t, "archetype(99)", Archetype(99).String())
}

func TestFamilies(t *testing.T) {
	assert.Equal(t, Straight, StraightFloor.Family())
	assert.Equal(t, Curved, CurvedWall.Family())
	assert.Equal(t, Corner, LFloor.Family())
	assert.True(t, CurvedFloor.IsFloor())
	assert.False(t, LWall.IsFloor())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		a      Archetype
		mutate func(*Parameters)
		param  string
	}{
		{"zero x subdivisions", StraightWall, func(p *Parameters) { p.Sub.X = 0 }, "subdivisions.x"},
		{"zero z subdivisions", CurvedWall, func(p *Parameters) { p.Sub.Z = 0 }, "subdivisions.z"},
		{"negative tile size", StraightWall, func(p *Parameters) { p.TileSize.X = -1 }, "tile_size"},
		{"nan base", StraightFloor, func(p *Parameters) { p.BaseSize.Y = math.NaN() }, "base_size"},
		{"core below base", StraightWall, func(p *Parameters) { p.TileSize.Z = 0.2 }, "tile_size.z"},
		{"zero arc", CurvedWall, func(p *Parameters) { p.ArcDegrees = 0 }, "degrees_of_arc"},
		{"full arc", CurvedFloor, func(p *Parameters) { p.ArcDegrees = 360 }, "degrees_of_arc"},
		{"zero radius", CurvedFloor, func(p *Parameters) { p.BaseRadius = 0 }, "base_radius"},
		{"zero curve segments", CurvedWall, func(p *Parameters) { p.Sub.Curve = 0 }, "subdivisions.curve"},
		{"zero leg", LWall, func(p *Parameters) { p.Leg1 = 0 }, "leg_1_len"},
		{"flat corner", LFloor, func(p *Parameters) { p.CornerAngle = 180 }, "angle"},
		{"zero width subdivisions", LWall, func(p *Parameters) { p.Sub.Width = 0 }, "subdivisions.width"},
		{"single width segment floor", LFloor, func(p *Parameters) { p.Sub.Width = 1 }, "subdivisions.width"},
		{"bad blueprint", StraightWall, func(p *Parameters) { p.BaseBlueprint = Blueprint(7) }, "base_blueprint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Defaults(tt.a)
			tt.mutate(&p)
			err := p.Validate(tt.a)

			var ce *tileerr.ConfigError
			require.True(t, errors.As(err, &ce), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.param, ce.Param)
			assert.Equal(t, tt.a.String(), ce.Archetype)
			assert.Equal(t, "validate", ce.Step)
		})
	}
}

func TestValidateIgnoresUnusedFields(t *testing.T) {
	p := Defaults(StraightWall)
	p.ArcDegrees = 0
	p.Leg1 = 0
	p.Sub.Curve = 0
	assert.NoError(t, p.Validate(StraightWall))
}

func TestSingleWidthSegment(t *testing.T) {
	p := Defaults(LWall)
	p.Sub.Width = 1
	assert.NoError(t, p.Validate(LWall))

	p = Defaults(LFloor)
	p.Sub.Width = 1
	p.CoreBlueprint = None
	assert.NoError(t, p.Validate(LFloor))
}

func TestNoneBlueprintSkipsPartChecks(t *testing.T) {
	p := Defaults(StraightWall)
	p.CoreBlueprint = None
	p.TileSize.Z = 0
	p.Sub.Z = 0
	assert.NoError(t, p.Validate(StraightWall))
}

func TestMetadataRoundTrip(t *testing.T) {
	for _, a := range Archetypes() {
		t.Run(a.String(), func(t *testing.T) {
			p := Defaults(a)
			p.Name = "keep"
			p.ArcDegrees = 67.5
			p.CurveDirection = CounterClockwise
			p.SocketSide = Outer
			p.BaseBlueprint = Plain
			p.Sub.Leg2 = 7

			gotA, gotP, err := FromMetadata(p.Metadata(a))
			require.NoError(t, err)
			assert.Equal(t, a, gotA)
			assert.Equal(t, p, gotP)
		})
	}
}

func TestFromMetadataErrors(t *testing.T) {
	_, _, err := FromMetadata(Metadata{KeyArchetype: "nope"})
	assert.Error(t, err)

	_, _, err = FromMetadata(Metadata{KeyArchetype: "l_wall", KeyLegs: "2"})
	assert.Error(t, err)

	_, _, err = FromMetadata(Metadata{KeyArchetype: "l_wall", KeyCoreBlueprint: "wicker"})
	assert.Error(t, err)
}

func TestMetadataKeysSorted(t *testing.T) {
	keys := Defaults(LWall).Metadata(LWall).Keys()
	require.NotEmpty(t, keys)
	for i := 1; i < len(keys); i++ {
		assert.Less(t, keys[i-1], keys[i])
	}
}
