package core

import (
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/twistededwards"
)

var curve = twistededwards.GetEdwardsCurve()

// EdwardsD is the d coefficient of the twisted Edwards curve -x^2 + y^2 = 1 + d*x^2*y^2
var EdwardsD = BaseField.fromFr(&curve.D)

// Point is an affine point on the twisted Edwards curve over BaseField.
// Points are identified by their x-coordinate; y is always the canonical root.
type Point struct {
	X *FieldElement
	Y *FieldElement
}

// Identity returns the neutral element (0, 1)
func Identity() Point {
	return Point{X: BaseField.Zero(), Y: BaseField.One()}
}

// RecoverPoint returns the point with the given x-coordinate.
// y^2 = (1 - a*x^2) / (1 - d*x^2); the smaller of the two roots is chosen.
func RecoverPoint(x *FieldElement) (Point, error) {
	if !x.Field().Equals(BaseField) {
		return Point{}, fmt.Errorf("x-coordinate must be a base field element")
	}
	var one, xx, num, den, y fr.Element
	one.SetOne()
	px := x.toFr()
	xx.Square(&px)
	num.Mul(&curve.A, &xx)
	num.Sub(&one, &num)
	den.Mul(&curve.D, &xx)
	den.Sub(&one, &den)
	if den.IsZero() {
		return Point{}, fmt.Errorf("no point with x-coordinate %s", x)
	}
	num.Div(&num, &den)
	if y.Sqrt(&num) == nil {
		return Point{}, fmt.Errorf("no point with x-coordinate %s: not a quadratic residue", x)
	}
	if y.LexicographicallyLargest() {
		y.Neg(&y)
	}
	p := twistededwards.NewPointAffine(px, y)
	if !p.IsOnCurve() {
		return Point{}, fmt.Errorf("recovered point (%s, %s) is not on the curve", x, y.String())
	}
	return fromAffine(&p), nil
}

func fromAffine(p *twistededwards.PointAffine) Point {
	return Point{X: BaseField.fromFr(&p.X), Y: BaseField.fromFr(&p.Y)}
}

func (p Point) affine() twistededwards.PointAffine {
	return twistededwards.NewPointAffine(p.X.toFr(), p.Y.toFr())
}

// IsOnCurve checks the curve equation
func (p Point) IsOnCurve() bool {
	a := p.affine()
	return a.IsOnCurve()
}

// Equal compares two points coordinate-wise
func (p Point) Equal(other Point) bool {
	return p.X.Equal(other.X) && p.Y.Equal(other.Y)
}

// IsIdentity reports whether p is the neutral element
func (p Point) IsIdentity() bool {
	a := p.affine()
	return a.IsZero()
}
