// Copyright 2026 The Dora-RT Project Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license.

package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/dora-rt/dorajit/arch"
	"github.com/dora-rt/dorajit/internal/descriptors"
	"github.com/dora-rt/dorajit/internal/frame"
)

func newReplCmd() *cobra.Command {
	var archName string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "interactively drive a single ManagedStackFrame: push/pop scopes, declare vars and temps, inspect GC points",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := resolveArch(archName)
			if err != nil {
				return err
			}
			return runRepl(a)
		},
	}
	cmd.Flags().StringVar(&archName, "arch", "amd64", "target architecture: amd64, x86 or arm64")
	return cmd
}

// replSession is the mutable state one "dorajit repl" invocation
// drives: one live frame plus the named vars it has allocated, so
// commands can refer to them by name instead of raw offsets.
type replSession struct {
	arch   arch.Architecture
	tables *descriptors.Tables
	frame  *frame.ManagedStackFrame
	named  map[string]frame.ManagedSlot
	types  map[string]descriptors.TypeId
}

func runRepl(a arch.Architecture) error {
	rl, err := readline.New("dorajit> ")
	if err != nil {
		return errors.Wrap(err, "repl: open readline")
	}
	defer rl.Close()

	tables := descriptors.NewTables()
	s := &replSession{
		arch:   a,
		tables: tables,
		frame:  frame.NewManagedStackFrame(a, tables),
		named:  make(map[string]frame.ManagedSlot),
		types:  make(map[string]descriptors.TypeId),
	}
	s.defineType("ptr", s.arch.PointerWidth, s.arch.PointerWidth, true)
	s.defineType("int", 4, 4, false)
	s.defineType("long", 8, 8, false)

	fmt.Println("dorajit repl — type 'help' for commands, 'exit' to quit")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "repl: read line")
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}
		if err := s.dispatch(line); err != nil {
			fmt.Println("error:", err)
		}
	}
}

func (s *replSession) defineType(name string, size, align int64, isRef bool) {
	id := s.tables.DeclareType(descriptors.TypeDescriptor{Name: name, Size: size, Align: align, IsReference: isRef})
	s.types[name] = id
}

func (s *replSession) dispatch(line string) error {
	fields := strings.Fields(line)
	cmd, rest := fields[0], fields[1:]

	switch cmd {
	case "help":
		fmt.Println(`commands:
  push                    push a new scope
  pop                     pop the innermost scope, freeing its vars
  var <name> <type>       declare a scope var (type: int, long, ptr)
  temp <name> <type>      allocate an unscoped temp, bound to <name>
  free <name>             free a temp previously allocated with temp
  gcpoint                 print the live reference offsets
  stacksize               print the current stacksize
  exit                    leave the repl`)
		return nil
	case "push":
		s.frame.PushScope()
		return nil
	case "pop":
		s.frame.PopScope()
		return nil
	case "var":
		return s.declareVar(rest, false)
	case "temp":
		return s.declareVar(rest, true)
	case "free":
		if len(rest) != 1 {
			return errors.New("usage: free <name>")
		}
		slot, ok := s.named[rest[0]]
		if !ok {
			return errors.Errorf("no such var %q", rest[0])
		}
		s.frame.FreeTemp(slot)
		delete(s.named, rest[0])
		return nil
	case "gcpoint":
		gc := s.frame.GCPoint()
		fmt.Println(formatOffsets(gc.Offsets))
		return nil
	case "stacksize":
		fmt.Println(s.frame.Stacksize())
		return nil
	default:
		return errors.Errorf("unknown command %q (try 'help')", cmd)
	}
}

func (s *replSession) declareVar(args []string, temp bool) error {
	if len(args) != 2 {
		return errors.New("usage: var|temp <name> <type>")
	}
	name, typeName := args[0], args[1]
	if _, exists := s.named[name]; exists {
		return errors.Errorf("var %q already declared", name)
	}
	typ, ok := s.types[typeName]
	if !ok {
		return errors.Errorf("unknown type %q", typeName)
	}

	var slot frame.ManagedSlot
	if temp {
		slot = s.frame.AddTemp(typ)
	} else {
		slot = s.frame.AddScopeVar(typ)
	}
	s.named[name] = slot
	fmt.Printf("%s: offset=%d\n", name, slot.Offset)
	return nil
}

func formatOffsets(offs []frame.Offset) string {
	parts := make([]string, len(offs))
	for i, o := range offs {
		parts[i] = strconv.Itoa(int(o))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
