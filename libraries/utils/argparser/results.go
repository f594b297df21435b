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

package argparser

import (
	"strconv"
)

type ArgParseResults struct {
	options map[string]string
	Args    []string
}

func (res *ArgParseResults) Contains(name string) bool {
	_, ok := res.options[name]
	return ok
}

func (res *ArgParseResults) ContainsAny(names ...string) bool {
	for _, name := range names {
		if res.Contains(name) {
			return true
		}
	}
	return false
}

func (res *ArgParseResults) GetValue(name string) (string, bool) {
	v, ok := res.options[name]
	return v, ok
}

func (res *ArgParseResults) GetValueOrDefault(name, defVal string) string {
	if v, ok := res.options[name]; ok {
		return v
	}
	return defVal
}

// GetInt returns the named option as an int. Validation at parse time means
// a present value always converts.
func (res *ArgParseResults) GetInt(name string) (int, bool) {
	v, ok := res.options[name]
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

func (res *ArgParseResults) GetIntOrDefault(name string, defVal int) int {
	if n, ok := res.GetInt(name); ok {
		return n
	}
	return defVal
}

func (res *ArgParseResults) NArg() int {
	return len(res.Args)
}

func (res *ArgParseResults) Arg(idx int) string {
	return res.Args[idx]
}
