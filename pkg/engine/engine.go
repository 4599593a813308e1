// Package engine runs turtle scripts. Scripts are zygomys Lisp evaluated
// in a fresh sandbox per call; builtins drive a turtle over a planned mesh
// and can build whole tiles at the cursor.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"
	"go.uber.org/zap"

	"github.com/chazu/tilesmith/internal/logger"
	"github.com/chazu/tilesmith/pkg/mesh"
	"github.com/chazu/tilesmith/pkg/params"
	"github.com/chazu/tilesmith/pkg/recipe"
	"github.com/chazu/tilesmith/pkg/tile"
	"github.com/chazu/tilesmith/pkg/turtle"
)

// DefaultMaxCommands caps turtle commands per evaluation.
const DefaultMaxCommands = 100000

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a failed turtle command. Cause holds the typed
// failure behind a builtin error when there is one.
type EvalError struct {
	Line    int
	Col     int
	Message string
	Cause   error
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

func (e EvalError) Unwrap() error { return e.Cause }

// Result is what a script leaves behind.
type Result struct {
	Mesh     *mesh.Mesh
	Cursor   turtle.Cursor
	Tiles    []*tile.Tile
	Commands int
}

// Option configures an Engine.
type Option func(*Engine)

// WithBudget sets the turtle command budget. Zero or less is unlimited.
func WithBudget(n int) Option {
	return func(e *Engine) { e.maxCommands = n }
}

// WithBuildOptions sets the options used by the tile builtin.
func WithBuildOptions(o recipe.Options) Option {
	return func(e *Engine) { e.build = o }
}

// WithDefaults sets the parameter defaults the tile builtin starts from.
func WithDefaults(fn func(params.Archetype) params.Parameters) Option {
	return func(e *Engine) { e.defaults = fn }
}

// WithStart sets the cursor scripts start from.
func WithStart(c turtle.Cursor) Option {
	return func(e *Engine) { e.start = c }
}

// Engine evaluates turtle scripts. An Engine holds only configuration, so
// it is safe for concurrent use; each call to Evaluate creates a fresh
// sandbox, cursor and mesh.
type Engine struct {
	maxCommands int
	build       recipe.Options
	defaults    func(params.Archetype) params.Parameters
	start       turtle.Cursor
}

// NewEngine creates a new Engine instance.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxCommands: DefaultMaxCommands,
		build:       recipe.DefaultOptions(),
		defaults:    params.Defaults,
		start:       turtle.Home(),
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Evaluate runs source and returns what it traced.
//
// Return semantics:
//   - On success: returns result + nil errors + nil error
//   - On parse/eval failure: returns nil result + eval errors + nil error
//   - On fatal failure (panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (res *Result, evalErrs []EvalError, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, evalErrs, err = nil, nil, fmt.Errorf("engine: panic during evaluation: %v", r)
		}
	}()
	return e.evaluate(source)
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*Result, []EvalError, error) {
	s := e.newSession()

	// Empty source is a valid program that traces nothing.
	if strings.TrimSpace(source) == "" {
		return s.result(), nil, nil
	}

	// Sandbox mode prevents scripts from reaching the filesystem or syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, s)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		evalErrs := parseZygomysError(err)
		if s.failure != nil {
			evalErrs[0].Cause = s.failure
		}
		logger.Debug("script failed", zap.Error(err), zap.Int("commands", s.t.Commands()))
		return nil, evalErrs, nil
	}
	return s.result(), nil, nil
}

// session is the mutable state of one evaluation.
type session struct {
	eng     *Engine
	cur     *turtle.Cursor
	t       *turtle.Turtle
	tiles   []*tile.Tile
	failure error
}

func (e *Engine) newSession() *session {
	cur := e.start
	var opts []turtle.Option
	if e.maxCommands > 0 {
		opts = append(opts, turtle.WithBudget(e.maxCommands))
	}
	return &session{eng: e, cur: &cur, t: turtle.New(&cur, mesh.New(), opts...)}
}

// fail records the typed failure behind a builtin error.
func (s *session) fail(err error) error {
	if s.failure == nil {
		s.failure = err
	}
	return err
}

func (s *session) result() *Result {
	return &Result{
		Mesh:     s.t.Mesh(),
		Cursor:   *s.cur,
		Tiles:    s.tiles,
		Commands: s.t.Commands(),
	}
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting a line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()
	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}
	return []EvalError{{Message: strings.TrimSpace(msg)}}
}
