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
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
)

var CliOut io.Writer = color.Output
var CliErr io.Writer = color.Error

// IsTerminal reports whether stdout is interactive. Tables are aligned for
// terminals and tab separated otherwise.
var IsTerminal = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func Println(a ...interface{}) {
	fmt.Fprintln(CliOut, a...)
}

func Printf(format string, a ...interface{}) {
	fmt.Fprintf(CliOut, format, a...)
}

func PrintErrln(a ...interface{}) {
	fmt.Fprintln(CliErr, a...)
}

func PrintErrf(format string, a ...interface{}) {
	fmt.Fprintf(CliErr, format, a...)
}

// PrintTable writes |rows| under |headers|. Column widths are measured in
// terminal cells so wide characters in names stay aligned.
func PrintTable(headers []string, rows [][]string) {
	if !IsTerminal() {
		Println(strings.Join(headers, "\t"))
		for _, row := range rows {
			Println(strings.Join(row, "\t"))
		}
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	header := make([]string, len(headers))
	for i, h := range headers {
		header[i] = color.New(color.Bold).Sprint(runewidth.FillRight(h, widths[i]))
	}
	Println(strings.Join(header, "  "))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = runewidth.FillRight(cell, widths[i])
		}
		Println(strings.TrimRight(strings.Join(cells, "  "), " "))
	}
}
