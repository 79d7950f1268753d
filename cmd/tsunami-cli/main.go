// tsunami - a Sudoku solving service built on exact cover.
// Copyright (C) 2015-2016 Daniel C. Brotsky.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
// Licensed under the LGPL v3.  See the LICENSE file for details

// Command-line client for tsunami puzzle utilities
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/grifmoney/tsunami/puzzle"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

/*

command line

*/

const (
	defaultOutputName = "solutions.txt"
	exampleFileName   = "exampleboard.txt"
)

// newRootCommand builds the command.  All console output goes to
// out, so tests can capture it; cobra's own error reporting still
// goes to stderr.
func newRootCommand(out io.Writer) *cobra.Command {
	var (
		count      int
		example    bool
		cpuProfile bool
	)
	cmd := &cobra.Command{
		Use:   "tsunami-cli [flags] [input-file [output-file]]",
		Short: "Solve a Sudoku board.",
		Long: `Solve a Sudoku board.

The input file contains non-negative integers separated by commas
and newlines, 0 marking an empty square.  Lines whose first
character is '#' are comments.  Solutions are written to the
output file (default "solutions.txt").`,
		Args:         cobra.MaximumNArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cpuProfile {
				defer profile.Start().Stop()
			}
			if example {
				return writeExample(out)
			}
			if len(args) == 0 {
				return cmd.Help()
			}
			outputName := defaultOutputName
			if len(args) > 1 {
				outputName = args[1]
			}
			return solveFile(out, args[0], outputName, count)
		},
	}
	cmd.SetOut(out)
	cmd.Flags().IntVarP(&count, "number", "n", 1, "number of solutions to calculate (0 for all)")
	cmd.Flags().BoolVar(&example, "example", false, `create a formatted input file "exampleboard.txt"`)
	cmd.Flags().BoolVar(&cpuProfile, "profile", false, "write a CPU profile while solving")
	return cmd
}

/*

board solving

*/

// solveFile reads the board in inputName and writes up to limit
// of its solutions to outputName (limit <= 0 means all of them),
// reporting progress on out.
func solveFile(out io.Writer, inputName, outputName string, limit int) error {
	in, err := os.Open(inputName)
	if err != nil {
		return err
	}
	summary, err := puzzle.Parse(in)
	in.Close()
	if err != nil {
		return err
	}
	p, err := puzzle.New(summary)
	if err != nil {
		return err
	}

	f, err := os.Create(outputName)
	if err != nil {
		return err
	}
	path, err := filepath.Abs(outputName)
	if err != nil {
		path = outputName
	}
	fmt.Fprintf(out, "Printing solutions to file: %s\n", path)
	count, more, err := puzzle.WriteSolutions(f, p, limit)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	switch {
	case count == 0:
		return errors.New("Invalid board.")
	case more:
		if count == 1 {
			fmt.Fprintln(out, "Done! Printed first solution.")
		} else {
			fmt.Fprintf(out, "Done! Printed first %d solutions.\n", count)
		}
		fmt.Fprintln(out, `To see more solutions, use "-n [int]" argument (0 for all solutions).`)
	case count == 1:
		fmt.Fprintln(out, "Done! 1 solution found.")
	default:
		fmt.Fprintf(out, "Done! %d solutions found.\n", count)
	}
	return nil
}

/*

the example board

*/

// writeExample drops a commented board file in the current
// directory, for players to copy from.
func writeExample(out io.Writer) error {
	path, err := puzzle.WriteExample(exampleFileName)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(out, "Example file created: %s\n", path)
	return err
}
