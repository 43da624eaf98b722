package expr

// node is an expression in the syntax tree.
type node interface {
	position() int
}

type numberLit struct {
	at  int
	val Value
}

type boolLit struct {
	at  int
	val bool
}

type nameRef struct {
	at   int
	name string
}

type unaryExpr struct {
	at int
	op string
	x  node
}

type binaryExpr struct {
	at   int
	op   string
	x, y node
}

// compareExpr holds a comparison chain such as a < b <= c.
type compareExpr struct {
	at       int
	ops      []string
	operands []node
}

// logicalExpr is a short-circuit "and" / "or".
type logicalExpr struct {
	at   int
	op   string
	x, y node
}

type condExpr struct {
	at   int
	cond node
	then node
	els  node
}

type callExpr struct {
	at   int
	name string
	args []node
	gen  *generator
}

// generator is the single comprehension form: elem for name in iter.
type generator struct {
	at      int
	elem    node
	varName string
	iter    node
}

func (n *numberLit) position() int   { return n.at }
func (n *boolLit) position() int     { return n.at }
func (n *nameRef) position() int     { return n.at }
func (n *unaryExpr) position() int   { return n.at }
func (n *binaryExpr) position() int  { return n.at }
func (n *compareExpr) position() int { return n.at }
func (n *logicalExpr) position() int { return n.at }
func (n *condExpr) position() int    { return n.at }
func (n *callExpr) position() int    { return n.at }
func (n *generator) position() int   { return n.at }

// statement is either an assignment (target set) or a bare expression.
type statement struct {
	at     int
	target string
	value  node
}

// Program is a parsed expression program. It is immutable and safe to
// evaluate concurrently.
type Program struct {
	src   string
	stmts []statement
}

// Source returns the program text the Program was parsed from.
func (p *Program) Source() string {
	return p.src
}

// Names returns every identifier the program reads, assigns or calls, in
// first-appearance order.
func (p *Program) Names() []string {
	seen := map[string]struct{}{}
	var names []string
	add := func(name string) {
		if _, ok := seen[name]; ok {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	var walk func(n node)
	walk = func(n node) {
		switch typed := n.(type) {
		case *nameRef:
			add(typed.name)
		case *unaryExpr:
			walk(typed.x)
		case *binaryExpr:
			walk(typed.x)
			walk(typed.y)
		case *compareExpr:
			for _, operand := range typed.operands {
				walk(operand)
			}
		case *logicalExpr:
			walk(typed.x)
			walk(typed.y)
		case *condExpr:
			walk(typed.cond)
			walk(typed.then)
			walk(typed.els)
		case *callExpr:
			add(typed.name)
			for _, arg := range typed.args {
				walk(arg)
			}
			if typed.gen != nil {
				walk(typed.gen.iter)
				add(typed.gen.varName)
				walk(typed.gen.elem)
			}
		}
	}
	for _, stmt := range p.stmts {
		if stmt.target != "" {
			add(stmt.target)
		}
		walk(stmt.value)
	}
	return names
}
