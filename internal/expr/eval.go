package expr

import (
	"errors"
	"math"
	"strconv"
)

// DefaultMaxRange caps the number of elements a range may produce.
const DefaultMaxRange = 1_000_000

// stepsPerRange sizes the default iteration budget of one Run relative to
// the range cap. Nested ranges and generators share the budget.
const stepsPerRange = 4

// ResultName is the variable whose value is returned when a program ends
// with an assignment.
const ResultName = "result"

// Evaluator runs programs against a fixed Library. It holds no per-call
// state and is safe for concurrent use.
type Evaluator struct {
	lib      *Library
	maxRange int64
	maxSteps int64
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithMaxRange overrides DefaultMaxRange. Non-positive values are ignored.
func WithMaxRange(n int64) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxRange = n
		}
	}
}

// WithMaxSteps caps the range elements plus generator items a single Run
// may produce. It defaults to four times the range cap. Non-positive values
// are ignored.
func WithMaxSteps(n int64) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithLibrary replaces the default library.
func WithLibrary(lib *Library) Option {
	return func(e *Evaluator) {
		if lib != nil {
			e.lib = lib
		}
	}
}

// NewEvaluator builds an Evaluator using the default library.
func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{lib: DefaultLibrary(), maxRange: DefaultMaxRange}
	for _, opt := range opts {
		opt(e)
	}
	if e.maxSteps == 0 {
		e.maxSteps = stepsPerRange * e.maxRange
	}
	return e
}

// Library returns the evaluator's function library.
func (e *Evaluator) Library() *Library {
	return e.lib
}

// MaxRange returns the range size limit.
func (e *Evaluator) MaxRange() int64 {
	return e.maxRange
}

// MaxSteps returns the per-Run iteration budget.
func (e *Evaluator) MaxSteps() int64 {
	return e.maxSteps
}

// Evaluate parses and runs src.
func (e *Evaluator) Evaluate(src string, vars map[string]Value) (float64, error) {
	prog, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return e.Run(prog, vars)
}

// Run evaluates a parsed program. vars seeds the shared namespace; it is not
// modified.
func (e *Evaluator) Run(prog *Program, vars map[string]Value) (float64, error) {
	ev := &evaluation{Evaluator: e, globals: &scope{vars: make(map[string]Value, len(vars)+4)}}
	for name, v := range vars {
		ev.globals.vars[name] = v
	}

	var last Value
	for idx, stmt := range prog.stmts {
		v, err := ev.eval(stmt.value, ev.globals)
		if err != nil {
			return 0, err
		}
		if stmt.target == "" {
			last = v
			continue
		}
		if e.lib.Has(stmt.target) {
			return 0, errorf(ErrType, stmt.at, "cannot assign to library name %q", stmt.target)
		}
		ev.globals.vars[stmt.target] = v
		if idx == len(prog.stmts)-1 {
			if bound, ok := ev.globals.vars[ResultName]; ok {
				last = bound
			} else {
				last = v
			}
		}
	}
	return finalNumber(last)
}

func finalNumber(v Value) (float64, error) {
	if !v.isNumeric() {
		return 0, errorf(ErrNotNumeric, -1, "program produced %s, not a number", v.kind)
	}
	f, err := v.Float64()
	if err != nil {
		return 0, err
	}
	return f, nil
}

// Evaluate runs src with a default Evaluator.
func Evaluate(src string, vars map[string]Value) (float64, error) {
	return defaultEvaluator.Evaluate(src, vars)
}

var defaultEvaluator = NewEvaluator()

type scope struct {
	vars   map[string]Value
	parent *scope
}

func (s *scope) lookup(name string) (Value, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.vars[name]; ok {
			return v, true
		}
	}
	return Value{}, false
}

// evaluation is the per-Run state.
type evaluation struct {
	*Evaluator
	globals *scope
	steps   int64
}

// spend charges n iterations against the Run's budget.
func (ev *evaluation) spend(n int64) error {
	ev.steps += n
	if ev.steps > ev.maxSteps {
		return errorf(ErrLimit, -1, "program exceeds %d iteration steps", ev.maxSteps)
	}
	return nil
}

func (ev *evaluation) eval(n node, sc *scope) (Value, error) {
	v, err := ev.evalNode(n, sc)
	if err != nil {
		return Value{}, withPos(err, n.position())
	}
	return v, nil
}

func withPos(err error, pos int) error {
	var exprErr *Error
	if errors.As(err, &exprErr) && exprErr.Pos < 0 {
		return &Error{Kind: exprErr.Kind, Pos: pos, Msg: exprErr.Msg}
	}
	return err
}

func (ev *evaluation) evalNode(n node, sc *scope) (Value, error) {
	switch typed := n.(type) {
	case *numberLit:
		return typed.val, nil
	case *boolLit:
		return Bool(typed.val), nil
	case *nameRef:
		return ev.resolve(typed, sc)
	case *unaryExpr:
		x, err := ev.eval(typed.x, sc)
		if err != nil {
			return Value{}, err
		}
		return unary(typed.op, x)
	case *binaryExpr:
		x, err := ev.eval(typed.x, sc)
		if err != nil {
			return Value{}, err
		}
		y, err := ev.eval(typed.y, sc)
		if err != nil {
			return Value{}, err
		}
		return binary(typed.op, x, y)
	case *compareExpr:
		return ev.evalCompare(typed, sc)
	case *logicalExpr:
		x, err := ev.eval(typed.x, sc)
		if err != nil {
			return Value{}, err
		}
		if (typed.op == "and") != x.truthy() {
			return x, nil
		}
		return ev.eval(typed.y, sc)
	case *condExpr:
		cond, err := ev.eval(typed.cond, sc)
		if err != nil {
			return Value{}, err
		}
		if cond.truthy() {
			return ev.eval(typed.then, sc)
		}
		return ev.eval(typed.els, sc)
	case *callExpr:
		return ev.evalCall(typed, sc)
	}
	return Value{}, errorf(ErrSyntax, n.position(), "unsupported expression")
}

func (ev *evaluation) resolve(ref *nameRef, sc *scope) (Value, error) {
	if v, ok := sc.lookup(ref.name); ok {
		return v, nil
	}
	if v, ok := ev.lib.consts[ref.name]; ok {
		return v, nil
	}
	if _, ok := ev.lib.funcs[ref.name]; ok {
		return Value{}, errorf(ErrType, ref.at, "function %q must be called", ref.name)
	}
	return Value{}, errorf(ErrUnknownIdentifier, ref.at, "name %q is not defined", ref.name)
}

func (ev *evaluation) evalCompare(cmp *compareExpr, sc *scope) (Value, error) {
	left, err := ev.eval(cmp.operands[0], sc)
	if err != nil {
		return Value{}, err
	}
	for idx, op := range cmp.ops {
		right, err := ev.eval(cmp.operands[idx+1], sc)
		if err != nil {
			return Value{}, err
		}
		ok, err := compare(op, left, right)
		if err != nil {
			return Value{}, err
		}
		if !ok {
			return Bool(false), nil
		}
		left = right
	}
	return Bool(true), nil
}

func (ev *evaluation) evalCall(call *callExpr, sc *scope) (Value, error) {
	fn, ok := ev.lib.funcs[call.name]
	if !ok {
		if _, isConst := ev.lib.consts[call.name]; isConst {
			return Value{}, errorf(ErrType, call.at, "%q is not callable", call.name)
		}
		return Value{}, errorf(ErrUnknownIdentifier, call.at, "function %q is not defined", call.name)
	}

	var args []Value
	if call.gen != nil {
		if !fn.iterable {
			return Value{}, errorf(ErrType, call.at, "%s() does not accept a generator", call.name)
		}
		seq, err := ev.generate(call.gen, sc)
		if err != nil {
			return Value{}, err
		}
		args = []Value{seq}
	} else {
		args = make([]Value, 0, len(call.args))
		for _, arg := range call.args {
			v, err := ev.eval(arg, sc)
			if err != nil {
				return Value{}, err
			}
			args = append(args, v)
		}
	}
	if len(args) < fn.minArgs || (fn.maxArgs >= 0 && len(args) > fn.maxArgs) {
		return Value{}, errorf(ErrType, call.at, "%s() takes %s, got %d", call.name, arity(fn), len(args))
	}
	v, err := fn.call(ev, args)
	if err != nil {
		return Value{}, withPos(err, call.at)
	}
	if v.kind == KindFloat && math.IsNaN(v.f) {
		return Value{}, errorf(ErrDomain, call.at, "%s() produced NaN", call.name)
	}
	return v, nil
}

// generate evaluates the iterable eagerly and returns a lazy sequence whose
// loop variable lives in a child scope, so it never leaks into the program.
func (ev *evaluation) generate(gen *generator, sc *scope) (Value, error) {
	if ev.lib.Has(gen.varName) {
		return Value{}, errorf(ErrType, gen.at, "cannot use library name %q as a loop variable", gen.varName)
	}
	iterable, err := ev.eval(gen.iter, sc)
	if err != nil {
		return Value{}, err
	}
	items, err := iterate(iterable)
	if err != nil {
		return Value{}, withPos(err, gen.iter.position())
	}
	inner := &scope{vars: map[string]Value{}, parent: sc}
	seq := func(yield func(Value) error) error {
		return items(func(item Value) error {
			if err := ev.spend(1); err != nil {
				return err
			}
			inner.vars[gen.varName] = item
			v, err := ev.eval(gen.elem, inner)
			if err != nil {
				return err
			}
			return yield(v)
		})
	}
	return Value{kind: kindSeq, seq: seq}, nil
}

func arity(fn builtin) string {
	switch {
	case fn.maxArgs < 0:
		return "at least " + strconv.Itoa(fn.minArgs) + " arguments"
	case fn.minArgs == fn.maxArgs && fn.minArgs == 1:
		return "exactly 1 argument"
	case fn.minArgs == fn.maxArgs:
		return "exactly " + strconv.Itoa(fn.minArgs) + " arguments"
	default:
		return "between " + strconv.Itoa(fn.minArgs) + " and " + strconv.Itoa(fn.maxArgs) + " arguments"
	}
}
