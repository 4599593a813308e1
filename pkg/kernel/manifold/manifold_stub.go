//go:build !manifold

// Package manifold binds the Manifold library as a tile replay kernel.
// Without the "manifold" build tag this stub is compiled and New fails.
package manifold

import (
	"errors"

	"github.com/chazu/tilesmith/pkg/kernel"
)

// ErrUnavailable is returned by New when the package was built without
// the manifold tag.
var ErrUnavailable = errors.New("manifold kernel not available: build with -tags=manifold")

// New returns ErrUnavailable.
func New() (kernel.Kernel, error) {
	return nil, ErrUnavailable
}
