// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

// Command dorajit is a small driver over the frame manager, two-pass
// code generator and heap geometry: enough to compile a fixture
// function body, reserve and inspect a heap layout, or poke at a live
// scoped frame from a shell.
//
// Run "dorajit help" for a list of commands.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var log = logrus.New()

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		exitf("%v\n", err)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "dorajit",
		Short: "a baseline JIT frame manager and generational GC heap driver",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newCompileCmd())
	root.AddCommand(newHeapCmd())
	root.AddCommand(newReplCmd())
	return root
}

func exitf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
