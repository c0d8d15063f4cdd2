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
package synth

import (
	"context"
	"errors"
	"testing"

	"github.com/consensys/absynth/pkg/ast"
	"github.com/consensys/absynth/pkg/domain"
	"github.com/consensys/absynth/pkg/eval"
	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/util/linear"
	"github.com/consensys/absynth/pkg/value"
	"github.com/google/go-cmp/cmp"
)

var x = linear.Var("x")

var bikes = []Example{
	example("Ducati100", "Ducati"),
	example("Honda125", "Honda"),
	example("Ducati250", "Ducati"),
	example("Honda250", "Honda"),
	example("Honda550", "Honda"),
	example("Ducati125", "Ducati"),
}

var drNames = []Example{
	example("Nancy FreeHafer", "Dr. Nancy"),
	example("Andrew Cencici", "Dr. Andrew"),
	example("Jan Kotas", "Dr. Jan"),
	example("Mariya Sergienko", "Dr. Mariya"),
}

// ===================================================================
// Concretization
// ===================================================================

func Test_Concretize_01(t *testing.T) {
	ctx := lengthContext(5, value.IntOf(0), value.IntOf(1), value.String(" "))
	//
	first := render(ctx, ctx.Concretize(2))
	enumerations := ctx.Stats().Enumerations
	second := render(ctx, ctx.Concretize(2))
	//
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("concretize differs on second call (-first +second):\n%s", diff)
	} else if ctx.Stats().Enumerations != enumerations {
		t.Errorf("concretize enumerated again (%d vs %d)", ctx.Stats().Enumerations, enumerations)
	}
}

func Test_Concretize_02(t *testing.T) {
	ctx := lengthContext(5, value.IntOf(0), value.IntOf(1), value.String(" "))
	expected := []string{"0", "1", "\" \"", "arg0"}
	//
	if diff := cmp.Diff(expected, render(ctx, ctx.Concretize(0))); diff != "" {
		t.Errorf("unexpected leaves (-expected +actual):\n%s", diff)
	}
}

func Test_Concretize_03(t *testing.T) {
	ctx := lengthContext(5, value.IntOf(0), value.IntOf(1), value.String(" "))
	actual := render(ctx, ctx.Concretize(1))
	// Both (+ 0 1) and (len " ") produce the constant 1
	for _, program := range []string{"(+ 0 1)", "(len \" \")", "(append \" \" 1)"} {
		if contains(actual, program) {
			t.Errorf("unexpected program %s", program)
		}
	}
	//
	for _, program := range []string{"(+ 1 1)", "(len arg0)", "(append \" \" arg0)", "(- 0 1)"} {
		if !contains(actual, program) {
			t.Errorf("missing program %s", program)
		}
	}
}

func Test_Concretize_04(t *testing.T) {
	ctx := lengthContext(5, value.IntOf(0), value.IntOf(3))
	// Every expression is closed and has the requested size
	for n := uint(0); n <= 3; n++ {
		for _, id := range ctx.Concretize(n) {
			if ctx.Arena().HasHole(id) || ctx.Arena().Size(id) != n {
				t.Errorf("invalid concrete expression %s of size %d", ctx.Arena().String(id), n)
			}
		}
	}
	//
	if !contains(render(ctx, ctx.Concretize(2)), "(- (len arg0) 3)") {
		t.Errorf("missing program (- (len arg0) 3)")
	}
}

// ===================================================================
// Expansion
// ===================================================================

func Test_Expand_01(t *testing.T) {
	ctx := lengthContext(5, value.IntOf(0), value.String("abc"))
	//
	if children := ctx.expand(lattice.Bot[lattice.Length](), 5); len(children) != 0 {
		t.Errorf("bottom target gave %d children", len(children))
	}
}

func Test_Expand_02(t *testing.T) {
	ctx := lengthContext(5, value.IntOf(0), value.String("abc"))
	actual := render(ctx, ctx.expand(lattice.LenOf(3), 0))
	// No room for calls
	if diff := cmp.Diff([]string{"\"abc\""}, actual); diff != "" {
		t.Errorf("unexpected children (-expected +actual):\n%s", diff)
	}
}

func Test_Expand_03(t *testing.T) {
	ctx := lengthContext(5, value.IntOf(0), value.String("abc"))
	actual := render(ctx, ctx.expand(lattice.Top[lattice.Length](), 1))
	expected := []string{"\"abc\"", "arg0", "(□ ⊤ (append □0 □))", "(□ ⊤ (replace □ □0 □0))",
		"(□ ⊤ (substr □ □0 □0))", "(□ ⊤ (at □ □0))", "(□ ⊤ (to-str □0))"}
	//
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Errorf("unexpected children (-expected +actual):\n%s", diff)
	}
}

func Test_Resolve_01(t *testing.T) {
	var (
		ctx    = lengthContext(5, value.IntOf(0), value.String("ab"))
		arena  = ctx.Arena()
		target = lattice.Len(x)
		hole   = arena.Shape(target, domain.Shape(ast.Append))
	)
	//
	actual := render(ctx, ctx.visit(hole, 1))
	// The dependent argument must have length x-2 after "ab", and x after
	// arg0.  Only the latter is possible from a leaf.
	expected := []string{
		"(append \"ab\" (□ (- x 2) (append □0 □)))",
		"(append \"ab\" (□ (- x 2) (substr □ □0 □0)))",
		"(append arg0 \"\")",
	}
	//
	for _, program := range expected[:2] {
		if !contains(actual, program) {
			t.Errorf("missing child %s in %v", program, actual)
		}
	}
	//
	if contains(actual, expected[2]) || contains(actual, "(append arg0 \"ab\")") {
		t.Errorf("unexpected child in %v", actual)
	}
	// Sibling raising the budget of the only concrete position
	if !contains(actual, "(□ x (append □1 □))") {
		t.Errorf("missing sibling in %v", actual)
	}
}

func Test_Resolve_02(t *testing.T) {
	var (
		ctx   = lengthContext(5, value.IntOf(0), value.IntOf(1))
		arena = ctx.Arena()
		hole  = arena.Shape(lattice.Top[lattice.Length](), domain.Shape(ast.Substr))
		// Record every budget assignment generated up to size 3
		queue    = []ast.NodeID{hole}
		budgets  = make(map[[2]uint]int)
		expected = [][2]uint{{0, 0}, {1, 0}, {0, 1}, {2, 0}, {1, 1}, {0, 2}}
	)
	//
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		call, _ := arena.PendingCall(next)
		args := arena.Args(call)
		budgets[[2]uint{arena.Budget(args[1]), arena.Budget(args[2])}]++
		//
		for _, child := range ctx.visit(next, 3-arena.Size(next)) {
			if arena.Kind(child) == ast.HoleKind {
				queue = append(queue, child)
			}
		}
	}
	//
	for _, b := range expected {
		if budgets[b] != 1 {
			t.Errorf("budget %v generated %d times", b, budgets[b])
		}
	}
	//
	if len(budgets) != len(expected) {
		t.Errorf("unexpected budgets %v", budgets)
	}
}

// ===================================================================
// Synthesis
// ===================================================================

func Test_Synth_01(t *testing.T) {
	constants := []value.Value{value.IntOf(0), value.IntOf(1), value.IntOf(2), value.IntOf(3), value.IntOf(4),
		value.IntOf(5), value.String(" ")}
	//
	checkSynth(t, lattice.Len(x.Sub(linear.Const(3))), constants, 3, bikes, "(substr arg0 0 (- (len arg0) 3))")
}

func Test_Synth_02(t *testing.T) {
	// The identity
	examples := []Example{example("abc", "abc"), example("hello", "hello")}
	checkSynth(t, lattice.Len(x), nil, 2, examples, "arg0")
}

func Test_Synth_03(t *testing.T) {
	examples := []Example{example("abc", "abcabc"), example("hello", "hellohello")}
	checkSynth(t, lattice.Len(x.Scale(2)), nil, 2, examples, "(append arg0 arg0)")
}

func Test_Synth_04(t *testing.T) {
	var (
		env      = eval.AbsEnv[lattice.Type]{"arg0": lattice.Abs(lattice.StringType)}
		examples = []Example{
			{[]value.Value{value.String("abc")}, value.IntOf(3)},
			{[]value.Value{value.String("hello")}, value.IntOf(5)},
		}
		options = DefaultOptions()
	)
	//
	options.MaxSize = 2
	//
	progs, err := Synthesize[lattice.Type](context.Background(), domain.Types{}, lattice.IntegerType, env,
		[]value.Value{value.IntOf(0), value.IntOf(1)}, Examples(examples...), options)
	//
	if err != nil {
		t.Fatalf("synthesis failed: %v", err)
	} else if actual := renderExprs(progs); !contains(actual, "(len arg0)") {
		t.Errorf("expected (len arg0), got %v", actual)
	}
}

func Test_Synth_05(t *testing.T) {
	// Bottom yields nothing
	_, err := synthLength(context.Background(), lattice.Bot[lattice.Length](), nil, DefaultOptions(), bikes)
	//
	checkFailure(t, err, Exhausted)
}

func Test_Synth_06(t *testing.T) {
	options := DefaultOptions()
	options.MaxSize = 1
	// Reversal is not expressible at this size
	examples := []Example{example("abc", "cba"), example("hello", "olleh")}
	_, err := synthLength(context.Background(), lattice.Len(x), []value.Value{value.IntOf(0)}, options, examples)
	//
	checkFailure(t, err, Exhausted)
	//
	if !errors.Is(err, ErrExhausted) {
		t.Errorf("expected %v to match ErrExhausted", err)
	}
}

func Test_Synth_07(t *testing.T) {
	options := DefaultOptions()
	options.MaxItems = 3
	//
	_, err := synthLength(context.Background(), lattice.Top[lattice.Length](),
		[]value.Value{value.IntOf(0), value.IntOf(1)}, options, bikes)
	//
	checkFailure(t, err, Budget)
	//
	if errors.Is(err, ErrExhausted) {
		t.Errorf("budget failure should not match ErrExhausted")
	}
}

func Test_Synth_08(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	//
	_, err := synthLength(ctx, lattice.Top[lattice.Length](), nil, DefaultOptions(), bikes)
	//
	checkFailure(t, err, Cancelled)
	//
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected %v to wrap context.Canceled", err)
	}
}

func TestSlow_Synth_09(t *testing.T) {
	constants := []value.Value{value.String("Dr."), value.String(" "), value.String("."), value.IntOf(0),
		value.IntOf(1), value.IntOf(2)}
	//
	checkSynth(t, lattice.Top[lattice.Length](), constants, 4, drNames,
		"(append \"Dr.\" (append \" \" (substr arg0 0 (indexof arg0 \" \" 0))))")
}

func Test_Examples_01(t *testing.T) {
	var (
		arena  = ast.NewArena[lattice.Length]()
		id, _  = ast.Parse(arena, "(substr arg0 0 (- (len arg0) 3))")
		bad, _ = ast.Parse(arena, "(substr arg0 0 5)")
		oracle = Examples(bikes...)
	)
	//
	if !oracle(Interpret(arena, id)) {
		t.Errorf("expected program to be accepted")
	}
	//
	if oracle(Interpret(arena, bad)) {
		t.Errorf("expected program to be rejected")
	}
}

// ===================================================================
// Test Helpers
// ===================================================================

func example(input string, output string) Example {
	return Example{[]value.Value{value.String(input)}, value.String(output)}
}

func lengthEnv() eval.AbsEnv[lattice.Length] {
	return eval.AbsEnv[lattice.Length]{"arg0": lattice.Abs(lattice.Len(x))}
}

func lengthContext(maxSize uint, constants ...value.Value) *Context[lattice.Length] {
	options := DefaultOptions()
	options.MaxSize = maxSize
	//
	return NewContext[lattice.Length](domain.Length{}, lengthEnv(), constants, options)
}

func synthLength(ctx context.Context, target lattice.Length, constants []value.Value, options Options,
	examples []Example) ([]ast.Expr[lattice.Length], error) {
	return Synthesize[lattice.Length](ctx, domain.Length{}, target, lengthEnv(), constants,
		Examples(examples...), options)
}

func checkSynth(t *testing.T, target lattice.Length, constants []value.Value, maxSize uint, examples []Example,
	expected string) {
	t.Helper()
	//
	options := DefaultOptions()
	options.MaxSize = maxSize
	//
	progs, err := synthLength(context.Background(), target, constants, options, examples)
	if err != nil {
		t.Fatalf("synthesis failed: %v", err)
	}
	//
	actual := renderExprs(progs)
	//
	if !contains(actual, expected) {
		t.Errorf("expected %s, got %v", expected, actual)
	}
	// All solutions have the same size
	for _, prog := range progs {
		if prog.Size() != progs[0].Size() {
			t.Errorf("solutions %s and %s differ in size", prog, progs[0])
		}
	}
}

func checkFailure(t *testing.T, err error, reason Reason) {
	t.Helper()
	//
	var failure *Failure
	//
	if !errors.As(err, &failure) {
		t.Errorf("expected failure, got %v", err)
	} else if failure.Reason != reason {
		t.Errorf("expected failure %s, got %s", reason, failure.Reason)
	}
}

func render[L lattice.Lattice[L]](ctx *Context[L], ids []ast.NodeID) []string {
	var strs []string
	//
	for _, id := range ids {
		strs = append(strs, ctx.Arena().String(id))
	}
	//
	return strs
}

func renderExprs[L lattice.Lattice[L]](exprs []ast.Expr[L]) []string {
	var strs []string
	//
	for _, e := range exprs {
		strs = append(strs, e.String())
	}
	//
	return strs
}

func contains(strs []string, s string) bool {
	for _, str := range strs {
		if str == s {
			return true
		}
	}
	//
	return false
}
