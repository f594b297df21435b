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
	"bytes"
	"context"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func captureOutput(t *testing.T, terminal bool) *bytes.Buffer {
	var buf bytes.Buffer
	out, errOut, isTerm, noColor := CliOut, CliErr, IsTerminal, color.NoColor
	CliOut, CliErr = &buf, &buf
	IsTerminal = func() bool { return terminal }
	color.NoColor = true
	t.Cleanup(func() {
		CliOut, CliErr, IsTerminal, color.NoColor = out, errOut, isTerm, noColor
	})
	return &buf
}

func TestPrintTablePlain(t *testing.T) {
	buf := captureOutput(t, false)
	PrintTable([]string{"A", "B"}, [][]string{{"1", "two"}})
	assert.Equal(t, "A\tB\n1\ttwo\n", buf.String())
}

func TestPrintTableAligned(t *testing.T) {
	buf := captureOutput(t, true)
	PrintTable([]string{"NAME", "N"}, [][]string{{"日本", "1"}, {"x", "22"}})
	assert.Equal(t, "NAME  N \n日本  1\nx     22\n", buf.String())
}

type echoCmd struct {
	got []string
}

func (e *echoCmd) Name() string        { return "echo" }
func (e *echoCmd) Description() string { return "echo" }
func (e *echoCmd) Exec(_ context.Context, commandStr string, args []string) int {
	e.got = append([]string{commandStr}, args...)
	return 0
}

func TestSubCommandHandler(t *testing.T) {
	buf := captureOutput(t, false)
	echo := &echoCmd{}
	hc := NewSubCommandHandler("fbrow", "test", []Command{echo})

	assert.Equal(t, 0, hc.Exec(context.Background(), "fbrow", []string{"ECHO", "a"}))
	assert.Equal(t, []string{"fbrow echo", "a"}, echo.got)

	assert.Equal(t, 1, hc.Exec(context.Background(), "fbrow", []string{"nope"}))
	assert.Contains(t, buf.String(), "Unknown Command nope")
	assert.Contains(t, buf.String(), "Valid commands for fbrow are")

	buf.Reset()
	assert.Equal(t, 1, hc.Exec(context.Background(), "fbrow", []string{"--help"}))
	assert.NotContains(t, buf.String(), "Unknown Command")
}
