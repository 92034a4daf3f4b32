// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dora-rt/dorajit/arch"
	"github.com/dora-rt/dorajit/internal/codegen"
)

func newCompileCmd() *cobra.Command {
	var archName string

	cmd := &cobra.Command{
		Use:   "compile <fixture>",
		Short: "run the two-pass driver over a built-in fixture and print the emitted trace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveArch(archName)
			if err != nil {
				return err
			}

			all := fixtures()
			fx, ok := all[args[0]]
			if !ok {
				names := make([]string, 0, len(all))
				for n := range all {
					names = append(names, n)
				}
				sort.Strings(names)
				return errors.Errorf("unknown fixture %q (have: %s)", args[0], strings.Join(names, ", "))
			}

			log.WithField("fixture", fx.name).Debug("running info pass")
			info := codegen.GenerateInfo(a, fx.tables, 0, fx.body)

			emitter := &printEmitter{}
			codegen.Generate(info, fx.body, emitter)

			for _, line := range emitter.lines {
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&archName, "arch", "amd64", "target architecture: amd64, x86 or arm64")
	return cmd
}

func resolveArch(name string) (arch.Architecture, error) {
	switch name {
	case "amd64":
		return arch.AMD64, nil
	case "x86":
		return arch.X86, nil
	case "arm64":
		return arch.ARM64, nil
	default:
		return arch.Architecture{}, errors.Errorf("unknown architecture %q", name)
	}
}
