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
	"strings"

	"github.com/fatih/color"

	"github.com/dolthub/fbclient/cmd/fbrow/cli"
	"github.com/dolthub/fbclient/libraries/utils/argparser"
	"github.com/dolthub/fbclient/store/val"
)

// ZoneCmd resolves time zone ids to names and back.
type ZoneCmd struct{}

func (cmd ZoneCmd) Name() string {
	return "zone"
}

func (cmd ZoneCmd) Description() string {
	return "Translate between time zone names, offsets and wire ids."
}

func (cmd ZoneCmd) Exec(ctx context.Context, commandStr string, args []string) int {
	ap := argparser.NewArgParserWithVariableArgs(cmd.Name())
	apr, err := ap.Parse(args)
	if err != nil {
		return handleParseErr(ap, commandStr, "[--] <name|id|±hh:mm>...", err)
	}
	if apr.NArg() == 0 {
		cli.PrintErrln(color.RedString("%s requires a zone name, id or offset", commandStr))
		return 1
	}

	rows := make([][]string, 0, apr.NArg())
	status := 0
	for _, arg := range apr.Args {
		id, ok := resolveZone(arg)
		if !ok {
			cli.PrintErrln(color.RedString("unknown time zone '%s'", arg))
			status = 1
			continue
		}
		kind := "region"
		if id.IsOffset() {
			kind = "offset"
		}
		rows = append(rows, []string{arg, strconv.Itoa(int(id)), id.Name(), kind})
	}
	cli.PrintTable([]string{"INPUT", "ID", "NAME", "KIND"}, rows)
	return status
}

func resolveZone(s string) (val.TimeZoneID, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > int(val.GMTZoneID) {
			return 0, false
		}
		id := val.TimeZoneID(n)
		return id, id.Name() != ""
	}
	if mins, ok := parseOffset(s); ok {
		return val.OffsetZoneID(mins)
	}
	return val.LookupTimeZoneID(s)
}

// parseOffset accepts +hh:mm and -hh:mm.
func parseOffset(s string) (int, bool) {
	if len(s) != 6 || (s[0] != '+' && s[0] != '-') || s[3] != ':' {
		return 0, false
	}
	h, err := strconv.Atoi(s[1:3])
	if err != nil {
		return 0, false
	}
	m, err := strconv.Atoi(s[4:])
	if err != nil || m >= 60 {
		return 0, false
	}
	mins := h*60 + m
	if strings.HasPrefix(s, "-") {
		mins = -mins
	}
	return mins, true
}
