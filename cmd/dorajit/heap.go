// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dora-rt/dorajit/internal/heap"
)

func newHeapCmd() *cobra.Command {
	var sizeMB int64
	var doReserve bool
	var archName string

	cmd := &cobra.Command{
		Use:   "heap",
		Short: "print (and optionally reserve) the generational heap geometry for a given size",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveArch(archName)
			if err != nil {
				return err
			}
			if sizeMB <= 0 {
				return errors.New("heap: --size must be positive")
			}
			requested := sizeMB * 1024 * 1024

			if !doReserve {
				g := heap.Compute(a, requested, 0)
				printGeometry(g)
				return nil
			}

			log.WithField("size_mb", sizeMB).Info("reserving heap")
			r, err := heap.Reserve(a, requested)
			if err != nil {
				return errors.Wrap(err, "heap: reserve")
			}
			defer func() {
				if err := r.Release(); err != nil {
					log.WithError(err).Warn("releasing reservation")
				}
			}()

			printGeometry(r.Geometry)
			return nil
		},
	}
	cmd.Flags().Int64Var(&sizeMB, "size", 64, "requested heap size in MiB")
	cmd.Flags().BoolVar(&doReserve, "reserve", false, "actually mmap the reservation instead of a dry-run computation")
	cmd.Flags().StringVar(&archName, "arch", "amd64", "target architecture: amd64, x86 or arm64")
	return cmd
}

func printGeometry(g heap.Geometry) {
	printRegion := func(label string, r heap.Region) {
		fmt.Printf("%s [%s, %s) (%d bytes)\n", label, r.Start, r.End, r.Size())
	}
	printRegion("heap:      ", g.Heap)
	printRegion("  young:   ", g.Young)
	printRegion("  old:     ", g.Old)
	printRegion("card tbl:  ", g.CardTbl)
	printRegion("crossing:  ", g.Crossing)
	fmt.Printf("card table offset: %d\n", g.CardTableOffset)
	fmt.Printf("total reservation: %d bytes\n", g.TotalReservationSize())
}
