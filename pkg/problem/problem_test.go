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
package problem

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/consensys/absynth/pkg/synth"
	"github.com/consensys/absynth/pkg/value"
	"github.com/google/go-cmp/cmp"
)

// Determines the (relative) location of the test directory.  That is where
// the problem files are found.
const TestDir = "../../testdata/problems"

func Test_Load_01(t *testing.T) {
	problem := load(t, "bikes")
	//
	if problem.Domain != LengthDomain || problem.Target != "(- x 3)" || problem.MaxSize != 3 {
		t.Errorf("unexpected problem %v", problem)
	}
	//
	expected := []value.Value{value.IntOf(0), value.IntOf(1), value.IntOf(2), value.IntOf(3), value.IntOf(4),
		value.IntOf(5), value.String(" ")}
	//
	if diff := cmp.Diff(render(expected), render(problem.Constants)); diff != "" {
		t.Errorf("unexpected constants (-expected +actual):\n%s", diff)
	}
	//
	if len(problem.Examples) != 6 || !problem.Examples[1].Output.Equals(value.String("Honda")) {
		t.Errorf("unexpected examples %v", problem.Examples)
	}
}

func Test_Load_02(t *testing.T) {
	// Domain defaults to length
	if problem := load(t, "double"); problem.Domain != LengthDomain {
		t.Errorf("unexpected domain %s", problem.Domain)
	}
}

func Test_Load_03(t *testing.T) {
	options := synth.DefaultOptions()
	//
	if actual := load(t, "bikes").Options(options); actual.MaxSize != 3 {
		t.Errorf("unexpected max size %d", actual.MaxSize)
	}
	//
	if _, err := Load(fmt.Sprintf("%s/missing.yaml", TestDir)); err == nil {
		t.Errorf("loading a missing file should fail")
	}
}

func Test_Invalid_01(t *testing.T) {
	checkInvalid(t, "invalid_01")
}

func Test_Invalid_02(t *testing.T) {
	checkInvalid(t, "invalid_02")
}

func Test_Invalid_03(t *testing.T) {
	checkInvalid(t, "invalid_03")
}

func Test_Invalid_04(t *testing.T) {
	checkInvalid(t, "invalid_04")
}

func Test_Invalid_05(t *testing.T) {
	checkInvalid(t, "invalid_05")
}

func Test_Invalid_06(t *testing.T) {
	problem := &Problem{Name: "inline", Domain: LengthDomain, Target: "(- x",
		Examples: []synth.Example{{Inputs: nil, Output: value.String("a")}}}
	//
	if _, err := problem.Solve(context.Background(), synth.DefaultOptions()); err == nil {
		t.Errorf("solving with a malformed target should fail")
	}
}

func Test_Solve_01(t *testing.T) {
	check(t, "bikes", "(substr arg0 0 (- (len arg0) 3))")
}

func Test_Solve_02(t *testing.T) {
	check(t, "double", "(append arg0 arg0)")
}

func Test_Solve_03(t *testing.T) {
	check(t, "length", "(len arg0)")
}

func Test_Solve_04(t *testing.T) {
	problem := load(t, "reverse")
	//
	_, err := problem.Solve(context.Background(), problem.Options(synth.DefaultOptions()))
	//
	if !errors.Is(err, synth.ErrExhausted) {
		t.Errorf("expected exhaustion, got %v", err)
	}
}

func TestSlow_Solve_05(t *testing.T) {
	check(t, "dr_name", "(append \"Dr.\" (append \" \" (substr arg0 0 (indexof arg0 \" \" 0))))")
}

// ===================================================================
// Test Helpers
// ===================================================================

func load(t *testing.T, test string) *Problem {
	t.Helper()
	//
	problem, err := Load(fmt.Sprintf("%s/%s.yaml", TestDir, test))
	if err != nil {
		t.Fatal(err)
	}
	//
	return problem
}

func check(t *testing.T, test string, expected string) {
	t.Helper()
	//
	problem := load(t, test)
	//
	solution, err := problem.Solve(context.Background(), problem.Options(synth.DefaultOptions()))
	if err != nil {
		t.Fatal(err)
	}
	//
	for _, program := range solution.Programs {
		if program == expected {
			return
		}
	}
	//
	t.Errorf("expected %s, got %v", expected, solution.Programs)
}

func checkInvalid(t *testing.T, test string) {
	t.Helper()
	//
	if _, err := Load(fmt.Sprintf("%s/%s.yaml", TestDir, test)); err == nil {
		t.Errorf("problem %s should be rejected", test)
	}
}

func render(vals []value.Value) []string {
	strs := make([]string, len(vals))
	//
	for i, v := range vals {
		strs[i] = v.String()
	}
	//
	return strs
}
