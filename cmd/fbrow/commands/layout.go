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

package commands

import (
	"context"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/goccy/go-json"

	"github.com/dolthub/fbclient/cmd/fbrow/cli"
	"github.com/dolthub/fbclient/libraries/utils/argparser"
	"github.com/dolthub/fbclient/store/rowbuf"
)

type layoutColumn struct {
	Index      int    `json:"index"`
	Name       string `json:"name"`
	Type       string `json:"type"`
	Kind       string `json:"kind"`
	Nullable   bool   `json:"nullable"`
	Length     int    `json:"length"`
	Scale      int    `json:"scale,omitempty"`
	Subtype    int    `json:"subtype,omitempty"`
	Offset     int    `json:"offset"`
	Width      int    `json:"width"`
	NullOffset int    `json:"null_offset"`
}

type layoutDoc struct {
	Size    int            `json:"size"`
	Columns []layoutColumn `json:"columns"`
}

// LayoutCmd allocates a row buffer for a descriptor file and prints where
// each column landed.
type LayoutCmd struct{}

func (cmd LayoutCmd) Name() string {
	return "layout"
}

func (cmd LayoutCmd) Description() string {
	return "Print the row buffer layout for a YAML descriptor file."
}

func (cmd LayoutCmd) createArgParser() *argparser.ArgParser {
	ap := argparser.NewArgParserWithMaxArgs(cmd.Name(), 1)
	ap.SupportsFlag(jsonFlag, "j", "Print the layout as JSON.")
	return ap
}

func (cmd LayoutCmd) Exec(ctx context.Context, commandStr string, args []string) int {
	ap := cmd.createArgParser()
	apr, err := ap.Parse(args)
	if err != nil {
		return handleParseErr(ap, commandStr, "<descriptors.yaml>", err)
	}
	if apr.NArg() != 1 {
		cli.PrintErrln(color.RedString("%s requires a descriptor file", commandStr))
		return 1
	}

	data, err := readFile(apr.Arg(0))
	if err != nil {
		return printErr(err)
	}
	descs, err := ParseDescriptors(data)
	if err != nil {
		return printErr(err)
	}
	rs, err := rowbuf.Allocate(descs)
	if err != nil {
		return printErr(err)
	}
	defer rs.Close()

	doc, err := describeLayout(rs)
	if err != nil {
		return printErr(err)
	}

	if apr.Contains(jsonFlag) {
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return printErr(err)
		}
		cli.Println(string(out))
		return 0
	}

	rows := make([][]string, len(doc.Columns))
	for i, c := range doc.Columns {
		null := "-"
		if c.Nullable {
			null = strconv.Itoa(c.NullOffset)
		}
		rows[i] = []string{strconv.Itoa(c.Index), c.Name, c.Type, c.Kind, strconv.Itoa(c.Length), strconv.Itoa(c.Offset), strconv.Itoa(c.Width), null}
	}
	cli.PrintTable([]string{"#", "NAME", "TYPE", "KIND", "LENGTH", "OFFSET", "WIDTH", "NULL AT"}, rows)
	cli.Printf("row buffer: %s\n", humanize.IBytes(uint64(doc.Size)))
	return 0
}

func describeLayout(rs *rowbuf.RowSet) (layoutDoc, error) {
	slots, err := rs.Layout()
	if err != nil {
		return layoutDoc{}, err
	}

	doc := layoutDoc{Size: rs.Size(), Columns: make([]layoutColumn, len(slots))}
	for i, slot := range slots {
		cd, err := rs.Column(i)
		if err != nil {
			return layoutDoc{}, err
		}
		doc.Columns[i] = layoutColumn{
			Index:      i,
			Name:       cd.Name,
			Type:       cd.Type.String(),
			Kind:       cd.Kind().String(),
			Nullable:   cd.Nullable,
			Length:     cd.Length,
			Scale:      cd.Scale,
			Subtype:    cd.Subtype,
			Offset:     slot.Offset,
			Width:      slot.Width,
			NullOffset: slot.NullOffset,
		}
	}
	return doc, nil
}

func handleParseErr(ap *argparser.ArgParser, commandStr, synopsis string, err error) int {
	if err == argparser.ErrHelp {
		cli.Println("usage:", commandStr, "[options]", synopsis)
		ap.PrintUsage(cli.CliOut)
		return 0
	}
	return printErr(err)
}

func printErr(err error) int {
	cli.PrintErrln(color.RedString("%s", err))
	return 1
}
