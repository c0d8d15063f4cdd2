// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package domain

import (
	"testing"

	"github.com/consensys/absynth/pkg/ast"
	"github.com/consensys/absynth/pkg/eval"
	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/util/linear"
	"github.com/consensys/absynth/pkg/value"
	"github.com/google/go-cmp/cmp"
)

var (
	x    = linear.Var("x")
	lTop = lattice.Top[length]()
	lBot = lattice.Bot[length]()
)

// ===================================================================
// Shapes
// ===================================================================

func Test_LengthShapes_01(t *testing.T) {
	checkShapes(t, Length{}, lTop, ast.Append, ast.Replace, ast.Substr, ast.At, ast.ToStr)
}

func Test_LengthShapes_02(t *testing.T) {
	checkShapes(t, Length{}, lattice.Len(x.Sub(linear.Const(3))), ast.Append, ast.Substr)
}

func Test_LengthShapes_03(t *testing.T) {
	checkShapes(t, Length{}, lattice.LenOf(1), ast.Append, ast.Substr, ast.At, ast.ToStr)
	checkShapes(t, Length{}, lattice.LenOf(2), ast.Append, ast.Substr, ast.ToStr)
	checkShapes(t, Length{}, lattice.LenOf(0), ast.Append, ast.Substr)
}

func Test_LengthShapes_04(t *testing.T) {
	checkShapes(t, Length{}, lBot)
}

func Test_TypeShapes_01(t *testing.T) {
	checkShapes(t, Types{}, lattice.StringType, ast.Append, ast.Replace, ast.Substr, ast.At, ast.ToStr)
	checkShapes(t, Types{}, lattice.IntegerType, ast.Add, ast.Sub, ast.Len, ast.ToInt, ast.IndexOf)
	checkShapes(t, Types{}, lattice.BooleanType, ast.PrefixOf, ast.SuffixOf, ast.Contains)
	checkShapes(t, Types{}, lattice.BotType)
}

func Test_TypeShapes_02(t *testing.T) {
	if n := len(Types{}.Shapes(lattice.TopType)); n != ast.NumFuncs {
		t.Errorf("expected %d shapes for top, got %d", ast.NumFuncs, n)
	}
}

func Test_Shape_01(t *testing.T) {
	// Every dependent position must be a parameter of its function
	for _, fn := range ast.Funcs() {
		if s := Shape(fn); s.Dep >= fn.Arity() || s.Dep < -1 {
			t.Errorf("invalid dependent position %d for %s", s.Dep, fn)
		}
	}
}

// ===================================================================
// Inverse semantics
// ===================================================================

func Test_LengthInvert_01(t *testing.T) {
	lengths := []linear.Expr{linear.Const(0), linear.Const(3), x, x.Sub(linear.Const(3)), linear.Var("y")}
	//
	for _, l1 := range lengths {
		for _, l2 := range lengths {
			target := lattice.Len(l1.Add(l2))
			args := []lmixed{lattice.Abs(lattice.Len(l1)), {}}
			//
			if actual, ok := (Length{}).Invert(ast.Append, target, 1, args); !ok {
				t.Errorf("inverting append(%s, _) = %s failed", l1, target)
			} else if !actual.Equals(lattice.Len(l2)) {
				t.Errorf("inverting append(%s, _) = %s gave %s, expected %s", l1, target, actual, l2)
			}
		}
	}
}

func Test_LengthInvert_02(t *testing.T) {
	args := []lmixed{lattice.Conc[length](value.String("Dr.")), {}}
	//
	checkInvert(t, ast.Append, lattice.Len(x), 1, args, lattice.Len(x.Sub(linear.Const(3))))
	checkInvert(t, ast.Append, lTop, 1, args, lTop)
	checkInvert(t, ast.Append, lattice.LenOf(3), 1, args, lattice.LenOf(0))
	checkInvalidInvert(t, ast.Append, lattice.LenOf(2), 1, args)
	checkInvalidInvert(t, ast.Append, lBot, 1, args)
}

func Test_LengthInvert_03(t *testing.T) {
	args := []lmixed{{}, lattice.Conc[length](value.IntOf(0)), lattice.Conc[length](value.IntOf(2))}
	//
	checkInvert(t, ast.Substr, lattice.Len(x), 0, args, lTop)
	checkInvert(t, ast.Replace, lattice.Len(x), 0, args, lTop)
	checkInvert(t, ast.At, lattice.LenOf(1), 0, args, lTop)
	checkInvalidInvert(t, ast.Substr, lBot, 0, args)
}

func Test_TypeInvert_01(t *testing.T) {
	var sem Types
	//
	if actual, ok := sem.Invert(ast.Substr, lattice.StringType, 0, nil); !ok || actual != lattice.StringType {
		t.Errorf("unexpected inverse %s", actual)
	}
	//
	if actual, ok := sem.Invert(ast.Add, lattice.IntegerType, 1, nil); !ok || actual != lattice.IntegerType {
		t.Errorf("unexpected inverse %s", actual)
	}
	//
	if _, ok := sem.Invert(ast.Len, lattice.BotType, 0, nil); ok {
		t.Errorf("inverse of bottom should fail")
	}
}

// ===================================================================
// Forward semantics
// ===================================================================

func Test_LengthApply_01(t *testing.T) {
	hello := lattice.Conc[length](value.String("hello"))
	//
	checkApply(t, ast.Append, lattice.Abs(lattice.Len(x)), hello)(lattice.Abs(lattice.Len(x.Add(linear.Const(5)))))
	checkApply(t, ast.Append, hello, lattice.Abs(lTop))(lattice.Abs(lTop))
	checkApply(t, ast.Append, lattice.Abs(lBot), hello)(lattice.Abs(lattice.LenOf(5)))
	checkApply(t, ast.Append, lattice.Abs(lattice.Len(x)), lattice.Abs(lBot))(lattice.Abs(lattice.Len(x)))
}

func Test_LengthApply_02(t *testing.T) {
	arg := lattice.Abs(lattice.Len(x))
	//
	checkApply(t, ast.Len, arg)(lattice.Conc[length](value.Int(x)))
	checkApply(t, ast.Len, lattice.Abs(lTop))(lattice.Abs(lTop))
	checkApply(t, ast.Replace, arg, str("a"), str("bb"))(lattice.Abs(lTop))
	checkApply(t, ast.IndexOf, arg, str(" "), num(0))(lattice.Abs(lTop))
	checkApply(t, ast.Contains, lattice.Abs(lBot), str(" "))(lattice.Abs(lBot))
	checkApply(t, ast.At, arg, num(0))(lattice.Abs(lattice.LenOf(1)))
}

func Test_LengthApply_03(t *testing.T) {
	arg := lattice.Abs(lattice.Len(x))
	//
	checkApply(t, ast.Substr, arg, num(1), num(4))(lattice.Abs(lattice.LenOf(3)))
	checkApply(t, ast.Substr, arg, num(0), lattice.Conc[length](value.Int(x)))(arg)
	checkApply(t, ast.Substr, arg, num(0), lattice.Abs(lTop))(lattice.Abs(lTop))
	checkApply(t, ast.Substr, lattice.Abs(lTop), num(2), num(2))(lattice.Abs(lattice.LenOf(0)))
}

func Test_LengthApply_04(t *testing.T) {
	arg := lattice.Abs(lattice.Len(x))
	//
	checkApplyError(t, ast.Substr, []lmixed{arg, num(-1), num(2)}, eval.InvalidIndex)
	checkApplyError(t, ast.Substr, []lmixed{arg, num(3), num(2)}, eval.InvalidIndex)
	checkApplyError(t, ast.Substr, []lmixed{arg, num(0), lattice.Conc[length](value.Int(x.Add(linear.Const(1))))},
		eval.InvalidIndex)
	checkApplyError(t, ast.At, []lmixed{lattice.Abs(lattice.LenOf(2)), num(2)}, eval.InvalidIndex)
	checkApplyError(t, ast.Append, []lmixed{arg, num(6)}, eval.TypeMismatch)
	checkApplyError(t, ast.Len, []lmixed{num(6)}, eval.TypeMismatch)
}

func Test_TypeApply_01(t *testing.T) {
	var (
		sem  Types
		text = lattice.Abs(lattice.StringType)
	)
	//
	if actual, err := sem.Apply(ast.Len, []tmixed{text}); err != nil {
		t.Errorf("unexpected error %v", err)
	} else if !actual.Equals(lattice.Abs(lattice.IntegerType)) {
		t.Errorf("unexpected result %s", actual)
	}
	//
	if _, err := sem.Apply(ast.Len, []tmixed{lattice.Abs(lattice.IntegerType)}); !eval.IsKind(err, eval.TypeMismatch) {
		t.Errorf("expected type mismatch, got %v", err)
	}
	// Nothing is known about top
	if _, err := sem.Apply(ast.Len, []tmixed{lattice.Abs(lattice.TopType)}); err != nil {
		t.Errorf("unexpected error %v", err)
	}
}

// ===================================================================
// Soundness
// ===================================================================

var samples = []string{"", "a", "Balloon", "Ducati100", "naïve", "Nancy FreeHafer"}

func Test_LengthSound_01(t *testing.T) {
	for _, a := range samples {
		for _, b := range samples {
			checkSound(t, ast.Append, value.String(a), value.String(b))
			checkSound(t, ast.Replace, value.String(a), value.String(b), value.String("x"))
		}
	}
}

func Test_LengthSound_02(t *testing.T) {
	for _, s := range samples {
		n := int64(len([]rune(s)))
		//
		for i := int64(0); i <= n; i++ {
			for j := i; j <= n; j++ {
				checkSound(t, ast.Substr, value.String(s), value.IntOf(i), value.IntOf(j))
			}
			//
			if i < n {
				checkSound(t, ast.At, value.String(s), value.IntOf(i))
			}
		}
	}
}

func Test_LengthSound_03(t *testing.T) {
	for _, s := range samples {
		checkSound(t, ast.Len, value.String(s))
		checkSound(t, ast.IndexOf, value.String(s), value.String("a"), value.IntOf(0))
		checkSound(t, ast.Contains, value.String(s), value.String("a"))
	}
}

// ===================================================================
// Abstract evaluation
// ===================================================================

func Test_LengthEval_01(t *testing.T) {
	env := eval.AbsEnv[length]{"arg0": lattice.Abs(lattice.Len(x))}
	//
	checkEval(t, "(substr arg0 0 (- (len arg0) 3))", env, lattice.Abs(lattice.Len(x.Sub(linear.Const(3)))))
	checkEval(t, "(append \"Dr.\" (append \" \" arg0))", env, lattice.Abs(lattice.Len(x.Add(linear.Const(4)))))
	checkEval(t, "(len arg0)", env, lattice.Conc[length](value.Int(x)))
	checkEval(t, "(len \"foo bar\")", env, lattice.Conc[length](value.IntOf(7)))
}

func Test_LengthEval_02(t *testing.T) {
	env := eval.AbsEnv[length]{"arg0": lattice.Abs(lattice.Len(x))}
	//
	checkEval(t, "(substr arg0 0 (indexof arg0 \" \" 0))", env, lattice.Abs(lTop))
	checkEval(t, "(if (contains arg0 \" \") arg0 \"\")", env, lattice.Abs(lTop))
	checkEval(t, "(if (contains arg0 \" \") arg0 arg0)", env, lattice.Abs(lattice.Len(x)))
	checkEval(t, "(if (contains \"a b\" \" \") arg0 \"\")", env, lattice.Abs(lattice.Len(x)))
}

func Test_LengthEval_03(t *testing.T) {
	env := eval.AbsEnv[length]{"arg0": lattice.Abs(lattice.Len(x))}
	//
	checkEvalError(t, "(substr arg0 0 (+ (len arg0) 1))", env, eval.InvalidIndex)
	checkEvalError(t, "(append \"hello \" 6)", env, eval.TypeMismatch)
	// Symbolic integers have no known rendering
	checkEval(t, "(to-str (len arg0))", env, lattice.Abs(lTop))
	checkEvalError(t, "(len arg1)", env, eval.UnboundVariable)
}

func Test_LengthEval_04(t *testing.T) {
	var (
		arena  = ast.NewArena[length]()
		target = lattice.Len(x.Sub(linear.Const(3)))
		sem    = eval.NewAbstract[length](arena, Length{}, nil, 16)
		hole   = arena.Hole(target)
		expr   = arena.Call(ast.Append, arena.Const(value.String("ab")), hole)
	)
	//
	if actual, err := sem.Eval(expr); err != nil {
		t.Errorf("unexpected error %v", err)
	} else if expected := lattice.Abs(lattice.Len(x.Sub(linear.Const(1)))); !actual.Equals(expected) {
		t.Errorf("evaluating %s gave %s, expected %s", arena.String(expr), actual, expected)
	}
	// Memoized results are stable
	first, _ := sem.Eval(expr)
	second, _ := sem.Eval(expr)
	//
	if !first.Equals(second) {
		t.Errorf("memoized evaluation differs: %s vs %s", first, second)
	}
}

func Test_TypeEval_01(t *testing.T) {
	var (
		arena = ast.NewArena[lattice.Type]()
		env   = eval.AbsEnv[lattice.Type]{"arg0": lattice.Abs(lattice.StringType)}
		sem   = eval.NewAbstract[lattice.Type](arena, Types{}, env, 0)
	)
	//
	id, errs := ast.Parse(arena, "(+ (len arg0) (indexof arg0 \" \" 0))")
	if len(errs) > 0 {
		t.Fatalf("parse failed: %v", errs)
	}
	//
	if actual, err := sem.Eval(id); err != nil {
		t.Errorf("unexpected error %v", err)
	} else if !actual.Equals(lattice.Abs(lattice.IntegerType)) {
		t.Errorf("unexpected result %s", actual)
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func str(s string) lmixed {
	return lattice.Conc[length](value.String(s))
}

func num(n int64) lmixed {
	return lattice.Conc[length](value.IntOf(n))
}

type shaper[L lattice.Lattice[L]] interface {
	Shapes(L) []ast.Shape
}

func checkShapes[L lattice.Lattice[L]](t *testing.T, sem shaper[L], target L, fns ...ast.Func) {
	t.Helper()
	//
	var expected []ast.Shape
	//
	for _, fn := range fns {
		expected = append(expected, Shape(fn))
	}
	//
	if diff := cmp.Diff(expected, sem.Shapes(target)); diff != "" {
		t.Errorf("shapes for %s differ (-expected +actual):\n%s", target, diff)
	}
}

func checkInvert(t *testing.T, fn ast.Func, target length, pos int, args []lmixed, expected length) {
	t.Helper()
	//
	if actual, ok := (Length{}).Invert(fn, target, pos, args); !ok {
		t.Errorf("inverting %s for %s failed", fn, target)
	} else if !actual.Equals(expected) {
		t.Errorf("inverting %s for %s gave %s, expected %s", fn, target, actual, expected)
	}
}

func checkInvalidInvert(t *testing.T, fn ast.Func, target length, pos int, args []lmixed) {
	t.Helper()
	//
	if actual, ok := (Length{}).Invert(fn, target, pos, args); ok {
		t.Errorf("inverting %s for %s should fail, gave %s", fn, target, actual)
	}
}

func checkApply(t *testing.T, fn ast.Func, args ...lmixed) func(lmixed) {
	t.Helper()
	//
	actual, err := (Length{}).Apply(fn, args)
	//
	return func(expected lmixed) {
		t.Helper()
		//
		if err != nil {
			t.Errorf("applying %s to %v failed: %v", fn, args, err)
		} else if !actual.Equals(expected) {
			t.Errorf("applying %s to %v gave %s, expected %s", fn, args, actual, expected)
		}
	}
}

func checkApplyError(t *testing.T, fn ast.Func, args []lmixed, expected eval.ErrorKind) {
	t.Helper()
	//
	if actual, err := (Length{}).Apply(fn, args); err == nil {
		t.Errorf("applying %s to %v gave %s, expected %s", fn, args, actual, expected)
	} else if !eval.IsKind(err, expected) {
		t.Errorf("applying %s to %v failed with %v, expected %s", fn, args, err, expected)
	}
}

// Check the abstraction of a concrete result lies below the abstract result
// computed from the abstractions of its arguments.  Integer arguments are
// left concrete, as they are never abstracted in this domain.
func checkSound(t *testing.T, fn ast.Func, args ...value.Value) {
	t.Helper()
	//
	concrete, err := eval.Apply(fn, args)
	if err != nil {
		t.Fatalf("applying %s to %v failed: %v", fn, args, err)
	}
	//
	abstract := make([]lmixed, len(args))
	//
	for i, arg := range args {
		if l, ok := lattice.Abstract[length](arg); ok {
			abstract[i] = lattice.Abs(l)
		} else {
			abstract[i] = lattice.Conc[length](arg)
		}
	}
	//
	actual, err := (Length{}).Apply(fn, abstract)
	//
	switch {
	case err != nil:
		t.Errorf("applying %s to %v failed: %v", fn, abstract, err)
	case !actual.IsAbstract():
		if v, _ := actual.Concrete(); !v.Equals(concrete) {
			t.Errorf("applying %s to %v gave %s, expected %s", fn, abstract, actual, concrete)
		}
	case !lattice.Below(lattice.Conc[length](concrete), lattice.Top[length]()):
		// Results which are not strings can only be described by top
		if l, _ := actual.Element(); !l.IsTop() {
			t.Errorf("applying %s to %v gave %s, expected top", fn, abstract, actual)
		}
	default:
		if l, _ := actual.Element(); !lattice.Below(lattice.Conc[length](concrete), l) {
			t.Errorf("%s is not below %s for %s%v", concrete, l, fn, abstract)
		}
	}
}

func checkEval(t *testing.T, program string, env eval.AbsEnv[length], expected lmixed) {
	t.Helper()
	//
	arena := ast.NewArena[length]()
	//
	if id, errs := ast.Parse(arena, program); len(errs) > 0 {
		t.Errorf("failed to parse %s: %v", program, errs)
	} else if actual, err := eval.NewAbstract[length](arena, Length{}, env, 0).Eval(id); err != nil {
		t.Errorf("evaluating %s failed: %v", program, err)
	} else if !actual.Equals(expected) {
		t.Errorf("evaluating %s gave %s, expected %s", program, actual, expected)
	}
}

func checkEvalError(t *testing.T, program string, env eval.AbsEnv[length], expected eval.ErrorKind) {
	t.Helper()
	//
	arena := ast.NewArena[length]()
	//
	if id, errs := ast.Parse(arena, program); len(errs) > 0 {
		t.Errorf("failed to parse %s: %v", program, errs)
	} else if actual, err := eval.NewAbstract[length](arena, Length{}, env, 0).Eval(id); err == nil {
		t.Errorf("evaluating %s gave %s, expected %s", program, actual, expected)
	} else if !eval.IsKind(err, expected) {
		t.Errorf("evaluating %s failed with %v, expected %s", program, err, expected)
	}
}
