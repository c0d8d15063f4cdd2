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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/consensys/absynth/pkg/problem"
	"github.com/consensys/absynth/pkg/synth"
	"github.com/consensys/absynth/pkg/util"
	"github.com/consensys/absynth/pkg/util/termio"
	"github.com/dustin/go-humanize"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var synthCmd = &cobra.Command{
	Use:   "synth [flags] problem_file(s)",
	Short: "synthesize programs for one or more problems.",
	Long: `Synthesize the smallest programs consistent with the examples of
	each given problem file.  Problems are described in YAML, giving the
	examples, the constants available and an abstract target.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) < 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		// Configure log level
		configureLogging(cmd)
		//
		cfg := synthConfig{
			maxItems:  GetUint(cmd, "max-items"),
			cacheSize: GetInt(cmd, "cache-size"),
			timeout:   GetDuration(cmd, "timeout"),
			stats:     GetFlag(cmd, "stats"),
			escapes:   termio.IsTerminal(os.Stdout),
		}
		// Only override the problem's own bound when asked to.
		if cmd.Flags().Changed("max-size") {
			cfg.maxSize = GetUint(cmd, "max-size")
		}
		//
		if !runSynth(os.Stdout, args, cfg) {
			os.Exit(1)
		}
	},
}

// synthConfig encapsulates the command-line settings for a synthesis run.
type synthConfig struct {
	// Overrides the size bound of each problem (when non-zero).
	maxSize uint
	// Bounds the number of worklist items expanded (when non-zero).
	maxItems uint
	// Abstract evaluation memo size.
	cacheSize int
	// Bounds the time spent on each problem (when non-zero).
	timeout time.Duration
	// Print search statistics for each problem.
	stats bool
	// Use ANSI escapes in the output.
	escapes bool
}

// Determine the synthesis options for a given problem.  Flags take precedence
// over the problem's own settings.
func (c *synthConfig) options(p *problem.Problem) synth.Options {
	options := synth.DefaultOptions()
	options.MaxItems = c.maxItems
	//
	if c.cacheSize > 0 {
		options.CacheSize = c.cacheSize
	}
	//
	options = p.Options(options)
	//
	if c.maxSize > 0 {
		options.MaxSize = c.maxSize
	}
	//
	return options
}

// Run the synthesizer over each problem file in turn, reporting the outcome
// onto a given writer.  This returns false if any problem was not solved.
func runSynth(out io.Writer, filenames []string, cfg synthConfig) bool {
	ok := true
	//
	for _, filename := range filenames {
		p, err := problem.Load(filename)
		if err != nil {
			fmt.Fprintln(out, err)
			//
			ok = false
			//
			continue
		}
		//
		ok = solveProblem(out, p, cfg) && ok
	}
	//
	return ok
}

func solveProblem(out io.Writer, p *problem.Problem, cfg synthConfig) bool {
	var (
		ctx     = context.Background()
		options = cfg.options(p)
		perf    = util.NewPerfStats()
	)
	//
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		//
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}
	//
	log.Debugf("solving %s (max size %d)", p.Name, options.MaxSize)
	//
	solution, err := p.Solve(ctx, options)
	//
	perf.Log(p.Name)
	//
	if err != nil {
		printFailure(out, p, err, cfg)
		return false
	}
	//
	printSolution(out, p, solution, cfg)
	//
	if cfg.stats {
		printStats(out, solution.Stats, perf, cfg)
	}
	//
	return true
}

func printSolution(out io.Writer, p *problem.Problem, solution *problem.Solution, cfg synthConfig) {
	table := termio.NewTablePrinter(1, uint(len(solution.Programs)))
	table.AnsiEscapes(cfg.escapes)
	//
	for i, prog := range solution.Programs {
		table.Set(0, uint(i), prog)
		table.SetEscape(0, uint(i), termio.NewAnsiEscape().FgColour(termio.Green))
	}
	//
	table.SetMaxWidth(0, termio.Width(out))
	//
	fmt.Fprintf(out, "%s: %d program(s) of size %d\n", p.Name, len(solution.Programs), solution.Size)
	table.Print(out)
}

func printFailure(out io.Writer, p *problem.Problem, err error, cfg synthConfig) {
	var (
		failure *synth.Failure
		msg     = err.Error()
	)
	//
	if errors.As(err, &failure) && failure.Reason == synth.Exhausted {
		msg = fmt.Sprintf("no program of size <= %d (%s items expanded)", failure.MaxSize,
			humanize.Comma(int64(failure.Popped)))
	}
	//
	if cfg.escapes {
		escape := termio.NewAnsiEscape().FgColour(termio.Red).Build()
		fmt.Fprintf(out, "%s: %s%s%s\n", p.Name, escape, msg, termio.ResetAnsiEscape().Build())
	} else {
		fmt.Fprintf(out, "%s: %s\n", p.Name, msg)
	}
}

func printStats(out io.Writer, stats synth.Stats, perf *util.PerfStats, cfg synthConfig) {
	rows := [][]string{
		{"popped", humanize.Comma(int64(stats.Popped))},
		{"pushed", humanize.Comma(int64(stats.Pushed))},
		{"pruned", humanize.Comma(int64(stats.Pruned))},
		{"tested", humanize.Comma(int64(stats.Tested))},
		{"enumerations", humanize.Comma(int64(stats.Enumerations))},
		{"concretes", humanize.Comma(int64(stats.Concretes))},
		{"time", perf.Elapsed().Round(time.Millisecond).String()},
	}
	//
	table := termio.NewTablePrinter(2, uint(len(rows)))
	table.AnsiEscapes(cfg.escapes)
	//
	for i, row := range rows {
		table.SetRow(uint(i), row...)
		table.SetEscape(0, uint(i), termio.BoldAnsiEscape())
	}
	//
	table.Print(out)
}

func init() {
	rootCmd.AddCommand(synthCmd)
	synthCmd.Flags().Bool("stats", false, "print search statistics")
	addSearchFlags(synthCmd.Flags())
}
