// Package conway evaluates Conway-style polyhedron expressions such as "atT" or "eP5".
//
// An expression is zero or more operators followed by one seed.  Operators apply right to left,
// so "atT" is the ambo of the truncated tetrahedron.
//
//	operators:  t (truncate)  a (ambo)  e (expand)
//	seeds:      T (tetrahedron)  C (cube)  O (octahedron)
//	            P<n> (n-prism)  A<n> (n-antiprism)  Y<n> (n-pyramid)
package conway

import (
	"strconv"
	"strings"

	"github.com/2x3systems/gopoly/gopoly"
	"github.com/2x3systems/gopoly/libpoly"
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/pkg/errors"
)

type Expr struct {
	Ops  []string `parser:"@Op*"`
	Seed *Seed    `parser:"@@"`
}

// MaxSeedSides caps n for the P, A and Y seeds.
const MaxSeedSides = 1024

type Seed struct {
	Kind  string `parser:"@Seed"`
	Sides int    `parser:"@Int?"`
}

var sConwayLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Op", Pattern: `[tae]`},
	{Name: "Seed", Pattern: `[TCOPAY]`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "whitespace", Pattern: `[ \t]+`},
})

var sParseConwayExpr = participle.MustBuild[Expr](
	participle.Lexer(sConwayLexer),
)

// Parse parses and checks a Conway expression.
func Parse(expr string) (*Expr, error) {
	X, err := sParseConwayExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrapf(gopoly.ErrBadExpr, "%q: %v", expr, err)
	}
	if err = X.Seed.validate(); err != nil {
		return nil, errors.Wrapf(err, "%q", expr)
	}
	return X, nil
}

func (seed *Seed) validate() error {
	switch seed.Kind {
	case "T", "C", "O":
		if seed.Sides != 0 {
			return errors.Wrapf(gopoly.ErrBadExpr, "seed %s takes no size", seed.Kind)
		}
	default:
		if seed.Sides < 3 {
			return errors.Wrapf(gopoly.ErrBadExpr, "seed %s needs at least 3 sides", seed.Kind)
		}
		if seed.Sides > MaxSeedSides {
			return errors.Wrapf(gopoly.ErrBadExpr, "seed %s allows at most %d sides", seed.Kind, MaxSeedSides)
		}
	}
	return nil
}

func (seed *Seed) Build() (*libpoly.Shape, error) {
	switch seed.Kind {
	case "T":
		return libpoly.Tetrahedron(), nil
	case "C":
		return libpoly.Cube(), nil
	case "O":
		return libpoly.Octahedron(), nil
	case "P":
		return libpoly.Prism(seed.Sides)
	case "A":
		return libpoly.Antiprism(seed.Sides)
	case "Y":
		return libpoly.Pyramid(seed.Sides)
	}
	return nil, errors.Wrapf(gopoly.ErrBadExpr, "unknown seed %q", seed.Kind)
}

func (seed *Seed) String() string {
	if seed.Sides > 0 {
		return seed.Kind + strconv.Itoa(seed.Sides)
	}
	return seed.Kind
}

// Eval builds the seed and applies each operator, rightmost first.
func (X *Expr) Eval() (*libpoly.Shape, error) {
	shape, err := X.Seed.Build()
	if err != nil {
		return nil, err
	}
	for i := len(X.Ops) - 1; i >= 0; i-- {
		switch X.Ops[i] {
		case "t":
			_, err = shape.Truncate()
		case "a":
			err = shape.Ambo()
		case "e":
			err = shape.Expand()
		default:
			err = errors.Wrapf(gopoly.ErrBadExpr, "unknown operator %q", X.Ops[i])
		}
		if err != nil {
			return nil, errors.WithMessagef(err, "evaluating %s", X)
		}
	}
	return shape, nil
}

func (X *Expr) String() string {
	return strings.Join(X.Ops, "") + X.Seed.String()
}

// Eval parses and evaluates expr in one step.
func Eval(expr string) (*libpoly.Shape, error) {
	X, err := Parse(expr)
	if err != nil {
		return nil, err
	}
	return X.Eval()
}
