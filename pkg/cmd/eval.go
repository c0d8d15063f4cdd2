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
package cmd

import (
	"fmt"
	"os"

	"github.com/consensys/absynth/pkg/ast"
	"github.com/consensys/absynth/pkg/eval"
	"github.com/consensys/absynth/pkg/lattice"
	"github.com/consensys/absynth/pkg/synth"
	"github.com/consensys/absynth/pkg/value"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var evalCmd = &cobra.Command{
	Use:   "eval [flags] program [input(s)]",
	Short: "evaluate a program on given inputs.",
	Long: `Evaluate a program, written as an S-Expression, on a given sequence of
	inputs.  Inputs are bound to the variables arg0, arg1, etc and are read as
	YAML scalars, so 3 is an integer whilst "3" and abc are strings.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		configureLogging(cmd)
		//
		inputs, err := parseInputs(args[1:], GetFlag(cmd, "strings"))
		if err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
		//
		result, err := evalProgram(args[0], inputs)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		//
		fmt.Println(result.String())
	},
}

// Parse a program and evaluate it on the given inputs.
func evalProgram(text string, inputs []value.Value) (value.Value, error) {
	var arena = ast.NewArena[lattice.Length]()
	//
	program, errs := ast.Parse(arena, text)
	if len(errs) > 0 {
		return value.Value{}, &errs[0]
	} else if arena.HasHole(program) {
		return value.Value{}, errors.New("program contains holes")
	}
	//
	env := make(eval.Env, len(inputs))
	//
	for i, v := range inputs {
		env[synth.ArgName(i)] = v
	}
	//
	return eval.Concrete(arena, program, env)
}

// Read each input as a YAML scalar, unless inputs are to be taken verbatim as
// strings.
func parseInputs(args []string, verbatim bool) ([]value.Value, error) {
	inputs := make([]value.Value, len(args))
	//
	for i, arg := range args {
		var raw any = arg
		//
		if !verbatim {
			if err := yaml.Unmarshal([]byte(arg), &raw); err != nil {
				return nil, errors.Wrapf(err, "input %d", i)
			}
		}
		//
		v, err := value.FromAny(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "input %d", i)
		}
		//
		inputs[i] = v
	}
	//
	return inputs, nil
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().Bool("strings", false, "treat every input as a string")
}
