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
	"fmt"
	"strconv"
)

type OptionType int

const (
	Flag OptionType = iota
	Value
	RequiredValue
)

type ValidationFunc func(string) error

func isIntStr(s string) error {
	if _, err := strconv.ParseInt(s, 10, 64); err != nil {
		return fmt.Errorf("error: %q is not a valid int", s)
	}
	return nil
}

func isUintStr(s string) error {
	if _, err := strconv.ParseUint(s, 10, 64); err != nil {
		return fmt.Errorf("error: %q is not a valid uint", s)
	}
	return nil
}

// Option describes one named command line argument.
type Option struct {
	// Long name, given as --Name.
	Name string
	// Optional short name, given as -Abbrev.
	Abbrev string
	// Placeholder for the value in usage text.
	ValDesc   string
	OptType   OptionType
	Desc      string
	Validator ValidationFunc
}
