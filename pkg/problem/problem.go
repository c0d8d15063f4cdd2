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
	"bytes"
	"os"
	"strings"

	"github.com/consensys/absynth/pkg/synth"
	"github.com/consensys/absynth/pkg/value"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LengthDomain identifies the abstract domain of string lengths.
const LengthDomain = "length"

// TypeDomain identifies the abstract domain of value types.
const TypeDomain = "type"

// Problem describes a synthesis task: the examples to satisfy, the constants
// which may appear in programs, the abstract description of each input and the
// abstract target describing the output.
type Problem struct {
	// Name of this problem (typically its filename).
	Name string
	// Abstract domain in which targets and variables are described.
	Domain string
	// Abstract description of the expected output.
	Target string
	// Largest program size to consider (0 means unspecified).
	MaxSize uint
	// Constants available in synthesized programs.
	Constants []value.Value
	// Abstract description of each input variable.
	Variables map[string]string
	// Input / output examples.
	Examples []synth.Example
}

// The raw YAML layout of a problem file.
type problemFile struct {
	Domain    string            `yaml:"domain"`
	Target    string            `yaml:"target"`
	MaxSize   uint              `yaml:"max-size"`
	Constants []any             `yaml:"constants"`
	Variables map[string]string `yaml:"variables"`
	Examples  []exampleFile     `yaml:"examples"`
}

type exampleFile struct {
	Inputs []any `yaml:"inputs"`
	Output any   `yaml:"output"`
}

// Load reads a problem from a YAML file on disk.
func Load(filename string) (*Problem, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading problem file")
	}
	//
	return Parse(filename, data)
}

// Parse a problem from its YAML representation.  Unknown fields are rejected,
// as are problems whose variables cannot be bound to the inputs of every
// example.
func Parse(name string, data []byte) (*Problem, error) {
	var (
		raw     problemFile
		decoder = yaml.NewDecoder(bytes.NewReader(data))
		err     error
	)
	//
	decoder.KnownFields(true)
	//
	if err = decoder.Decode(&raw); err != nil {
		return nil, errors.Wrapf(err, "%s: malformed problem", name)
	}
	//
	problem := &Problem{
		Name:      name,
		Domain:    strings.ToLower(raw.Domain),
		Target:    raw.Target,
		MaxSize:   raw.MaxSize,
		Variables: raw.Variables,
	}
	//
	if problem.Domain == "" {
		problem.Domain = LengthDomain
	} else if problem.Domain != LengthDomain && problem.Domain != TypeDomain {
		return nil, errors.Errorf("%s: unknown domain \"%s\"", name, raw.Domain)
	}
	//
	if problem.Constants, err = values(raw.Constants); err != nil {
		return nil, errors.Wrapf(err, "%s: constants", name)
	}
	//
	for i, ex := range raw.Examples {
		inputs, err := values(ex.Inputs)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: example %d", name, i)
		}
		//
		output, err := value.FromAny(ex.Output)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: example %d", name, i)
		}
		//
		problem.Examples = append(problem.Examples, synth.Example{Inputs: inputs, Output: output})
	}
	//
	if err := problem.validate(); err != nil {
		return nil, errors.Wrap(err, name)
	}
	//
	return problem, nil
}

// Options returns the given options, updated with any settings made by this
// problem.
func (p *Problem) Options(options synth.Options) synth.Options {
	if p.MaxSize > 0 {
		options.MaxSize = p.MaxSize
	}
	//
	return options
}

// Check every variable is bound by every example.
func (p *Problem) validate() error {
	if len(p.Examples) == 0 {
		return errors.New("no examples")
	}
	//
	for i, ex := range p.Examples {
		for name := range p.Variables {
			if !bound(name, len(ex.Inputs)) {
				return errors.Errorf("variable %s not bound by example %d", name, i)
			}
		}
	}
	//
	return nil
}

func bound(name string, n int) bool {
	for i := 0; i < n; i++ {
		if synth.ArgName(i) == name {
			return true
		}
	}
	//
	return false
}

func values(raw []any) ([]value.Value, error) {
	vals := make([]value.Value, len(raw))
	//
	for i, r := range raw {
		v, err := value.FromAny(r)
		if err != nil {
			return nil, err
		}
		//
		vals[i] = v
	}
	//
	return vals, nil
}
