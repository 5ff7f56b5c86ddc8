package symbolic

import (
	"math"
	"sort"
)

const simplifyMaxPasses = 50

// Simplify rewrites an expression to a fixed point, applying
// neutral-element removal, annihilation, constant folding, double
// negation, like-term collection, the power laws and function-at-known-
// point reductions.
func Simplify(e Expr) Expr {
	cur := e
	prev := ""
	for i := 0; i < simplifyMaxPasses; i++ {
		cur = simplifyNode(cur)
		s := cur.String()
		if s == prev {
			break
		}
		prev = s
	}
	return cur
}

func simplifyNode(e Expr) Expr {
	switch x := e.(type) {
	case *Num, *Var:
		return e
	case *Add:
		return simplifySum(&Add{L: simplifyNode(x.L), R: simplifyNode(x.R)})
	case *Mul:
		return simplifyProduct(&Mul{L: simplifyNode(x.L), R: simplifyNode(x.R)})
	case *Pow:
		return simplifyPow(simplifyNode(x.Base), simplifyNode(x.Exp))
	case *Neg:
		return simplifyNeg(simplifyNode(x.X))
	case *Div:
		return simplifyDiv(simplifyNode(x.L), simplifyNode(x.R))
	case *Fun:
		return simplifyFun(x.Name, simplifyNode(x.Arg))
	}
	return e
}

// term is one addend of a flattened sum: coeff * rest, where a nil rest
// marks a pure constant.
type term struct {
	coeff float64
	rest  Expr
}

// flattenSum decomposes nested additions and negations into terms.
func flattenSum(e Expr, sign float64, out []term) []term {
	switch x := e.(type) {
	case *Add:
		out = flattenSum(x.L, sign, out)
		return flattenSum(x.R, sign, out)
	case *Neg:
		return flattenSum(x.X, -sign, out)
	}
	c, rest := splitCoeff(e)
	return append(out, term{coeff: sign * c, rest: rest})
}

// splitCoeff extracts the constant coefficient from a product factor.
func splitCoeff(e Expr) (float64, Expr) {
	switch x := e.(type) {
	case *Num:
		return x.Value, nil
	case *Neg:
		c, rest := splitCoeff(x.X)
		return -c, rest
	case *Mul:
		cl, rl := splitCoeff(x.L)
		cr, rr := splitCoeff(x.R)
		return cl * cr, mulJoin(rl, rr)
	}
	return 1, e
}

func mulJoin(a, b Expr) Expr {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return &Mul{L: a, R: b}
}

// simplifySum collects like terms: a*x + b*x becomes (a+b)*x, constants
// fold together, and zero terms vanish.
func simplifySum(e Expr) Expr {
	terms := flattenSum(e, 1, nil)

	constant := 0.0
	keys := []string{}
	byKey := map[string]*term{}
	for _, t := range terms {
		if t.rest == nil {
			constant += t.coeff
			continue
		}
		key := t.rest.String()
		if existing, ok := byKey[key]; ok {
			existing.coeff += t.coeff
		} else {
			cp := t
			byKey[key] = &cp
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var parts []Expr
	for _, key := range keys {
		t := byKey[key]
		switch {
		case t.coeff == 0:
		case t.coeff == 1:
			parts = append(parts, t.rest)
		case t.coeff == -1:
			parts = append(parts, &Neg{X: t.rest})
		default:
			parts = append(parts, &Mul{L: &Num{Value: t.coeff}, R: t.rest})
		}
	}
	if constant != 0 || len(parts) == 0 {
		parts = append(parts, &Num{Value: constant})
	}

	result := parts[0]
	for _, p := range parts[1:] {
		result = &Add{L: result, R: p}
	}
	return result
}

// factor is one multiplicand of a flattened product: base raised to the
// sum of collected exponents.
type factor struct {
	base Expr
	exps []Expr
}

func flattenProduct(e Expr, coeff *float64, keys *[]string, byKey map[string]*factor) {
	switch x := e.(type) {
	case *Num:
		*coeff *= x.Value
		return
	case *Neg:
		*coeff = -*coeff
		flattenProduct(x.X, coeff, keys, byKey)
		return
	case *Mul:
		flattenProduct(x.L, coeff, keys, byKey)
		flattenProduct(x.R, coeff, keys, byKey)
		return
	}

	base := e
	var exp Expr = &Num{Value: 1}
	if p, ok := e.(*Pow); ok {
		base = p.Base
		exp = p.Exp
	}
	key := base.String()
	if existing, ok := byKey[key]; ok {
		existing.exps = append(existing.exps, exp)
	} else {
		byKey[key] = &factor{base: base, exps: []Expr{exp}}
		*keys = append(*keys, key)
	}
}

// simplifyProduct folds constants, drops ones, annihilates on zero and
// merges powers of a shared base: x^a * x^b becomes x^(a+b).
func simplifyProduct(e Expr) Expr {
	coeff := 1.0
	var keys []string
	byKey := map[string]*factor{}
	flattenProduct(e, &coeff, &keys, byKey)

	if coeff == 0 {
		return &Num{Value: 0}
	}
	sort.Strings(keys)

	var parts []Expr
	for _, key := range keys {
		f := byKey[key]
		exp := f.exps[0]
		for _, more := range f.exps[1:] {
			exp = &Add{L: exp, R: more}
		}
		exp = simplifyNode(exp)
		if n, ok := exp.(*Num); ok {
			switch n.Value {
			case 0:
				continue
			case 1:
				parts = append(parts, f.base)
				continue
			}
		}
		parts = append(parts, &Pow{Base: f.base, Exp: exp})
	}

	if len(parts) == 0 {
		return &Num{Value: coeff}
	}

	result := parts[0]
	for _, p := range parts[1:] {
		result = &Mul{L: result, R: p}
	}
	switch coeff {
	case 1:
		return result
	case -1:
		return &Neg{X: result}
	}
	return &Mul{L: &Num{Value: coeff}, R: result}
}

func simplifyPow(base, exp Expr) Expr {
	if bn, ok := base.(*Num); ok {
		if en, ok := exp.(*Num); ok {
			return &Num{Value: math.Pow(bn.Value, en.Value)}
		}
		if bn.Value == 1 {
			return &Num{Value: 1}
		}
	}
	if en, ok := exp.(*Num); ok {
		switch en.Value {
		case 0:
			return &Num{Value: 1}
		case 1:
			return base
		}
	}
	// (x^a)^b collapses to x^(a*b).
	if inner, ok := base.(*Pow); ok {
		return &Pow{Base: inner.Base, Exp: simplifyNode(&Mul{L: inner.Exp, R: exp})}
	}
	return &Pow{Base: base, Exp: exp}
}

func simplifyNeg(x Expr) Expr {
	switch inner := x.(type) {
	case *Num:
		return &Num{Value: -inner.Value}
	case *Neg:
		return inner.X
	}
	return &Neg{X: x}
}

func simplifyDiv(l, r Expr) Expr {
	if ln, ok := l.(*Num); ok {
		if ln.Value == 0 {
			return &Num{Value: 0}
		}
		if rn, ok := r.(*Num); ok {
			return &Num{Value: ln.Value / rn.Value}
		}
	}
	if rn, ok := r.(*Num); ok && rn.Value == 1 {
		return l
	}
	if Equal(l, r) {
		return &Num{Value: 1}
	}
	return &Div{L: l, R: r}
}

// simplifyFun folds a function applied to a constant when the result is
// an exact small integer (sin(0), exp(0), ln(1), sqrt(4), ...); other
// constant arguments stay symbolic to preserve exactness.
func simplifyFun(name string, arg Expr) Expr {
	if n, ok := arg.(*Num); ok {
		if f, ok := unaryFuncs[name]; ok {
			v := f(n.Value)
			if !math.IsNaN(v) && !math.IsInf(v, 0) && math.Abs(v-math.Round(v)) < 1e-12 && math.Abs(v) < 1e12 {
				return &Num{Value: math.Round(v)}
			}
		}
	}
	return &Fun{Name: name, Arg: arg}
}
