// Copyright 2024 Dolthub, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"context"
	"strings"

	"github.com/fatih/color"
)

func isHelp(str string) bool {
	switch {
	case str == "-h":
		return true
	case strings.TrimLeft(str, "- ") == "help":
		return true
	}
	return false
}

type Command interface {
	// Name is what is used on the command line to invoke the command.
	Name() string
	Description() string
	// Exec runs the command and returns the process exit code.
	Exec(ctx context.Context, commandStr string, args []string) int
}

type SubCommandHandler struct {
	name        string
	description string
	Subcommands []Command
}

func NewSubCommandHandler(name, description string, subcommands []Command) SubCommandHandler {
	return SubCommandHandler{name, description, subcommands}
}

func (hc SubCommandHandler) Name() string {
	return hc.name
}

func (hc SubCommandHandler) Description() string {
	return hc.description
}

func (hc SubCommandHandler) Exec(ctx context.Context, commandStr string, args []string) int {
	if len(args) < 1 {
		hc.printUsage(commandStr)
		return 1
	}

	subCommandStr := strings.ToLower(strings.TrimSpace(args[0]))
	for _, cmd := range hc.Subcommands {
		if strings.ToLower(cmd.Name()) == subCommandStr {
			return cmd.Exec(ctx, commandStr+" "+subCommandStr, args[1:])
		}
	}

	if !isHelp(subCommandStr) {
		PrintErrln(color.RedString("Unknown Command " + subCommandStr))
	}
	hc.printUsage(commandStr)
	return 1
}

func (hc SubCommandHandler) printUsage(commandStr string) {
	Println("Valid commands for", commandStr, "are")
	for _, cmd := range hc.Subcommands {
		Printf("    %16s - %s\n", cmd.Name(), cmd.Description())
	}
}
