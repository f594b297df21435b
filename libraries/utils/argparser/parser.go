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
	"errors"
	"fmt"
	"io"
	"strings"
)

const (
	helpFlag       = "help"
	helpFlagAbbrev = "h"
)

var ErrHelp = errors.New("help")

type UnknownArgumentParam struct {
	name string
}

func (u UnknownArgumentParam) Error() string {
	return "error: unknown option `" + u.name + "'"
}

// ValidatorFromStrList accepts only the strings in |valid|, ignoring case.
func ValidatorFromStrList(paramName string, valid []string) ValidationFunc {
	set := make(map[string]struct{}, len(valid))
	for _, s := range valid {
		set[strings.ToLower(s)] = struct{}{}
	}
	suffix := " is not a valid option for '" + paramName + "'. valid options are: " + strings.Join(valid, "|")
	return func(s string) error {
		if _, ok := set[strings.ToLower(s)]; !ok {
			return errors.New(s + suffix)
		}
		return nil
	}
}

type ArgParser struct {
	Name      string
	MaxArgs   int
	Supported []*Option
	byName    map[string]*Option
}

// NewArgParserWithMaxArgs creates a parser for command |name| accepting at
// most |maxArgs| positional arguments. -1 means unlimited.
func NewArgParserWithMaxArgs(name string, maxArgs int) *ArgParser {
	return &ArgParser{
		Name:    name,
		MaxArgs: maxArgs,
		byName:  make(map[string]*Option),
	}
}

func NewArgParserWithVariableArgs(name string) *ArgParser {
	return NewArgParserWithMaxArgs(name, -1)
}

// SupportOption registers |opt|. Names and abbreviations must be unique.
func (ap *ArgParser) SupportOption(opt *Option) {
	switch {
	case opt.Name == "":
		panic("Name is required")
	case opt.Name == helpFlag || opt.Name == helpFlagAbbrev || opt.Abbrev == helpFlag || opt.Abbrev == helpFlagAbbrev:
		panic(`"help" and "h" are both reserved`)
	case strings.HasPrefix(opt.Name, "-") || strings.HasPrefix(opt.Abbrev, "-"):
		panic("There is a bug. Option names, and abbreviations should not start with -")
	case strings.ContainsAny(opt.Name, " =\t"):
		panic("There is a bug.  Option name contains an invalid character")
	}
	if _, ok := ap.byName[opt.Name]; ok {
		panic("There is a bug.  Two supported arguments have the same name or abbreviation")
	}
	if _, ok := ap.byName[opt.Abbrev]; ok && opt.Abbrev != "" {
		panic("There is a bug.  Two supported arguments have the same name or abbreviation")
	}

	ap.Supported = append(ap.Supported, opt)
	ap.byName[opt.Name] = opt
	if opt.Abbrev != "" {
		ap.byName[opt.Abbrev] = opt
	}
}

func (ap *ArgParser) SupportsFlag(name, abbrev, desc string) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, OptType: Flag, Desc: desc})
	return ap
}

func (ap *ArgParser) SupportsString(name, abbrev, valDesc, desc string) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, ValDesc: valDesc, OptType: Value, Desc: desc})
	return ap
}

func (ap *ArgParser) SupportsRequiredString(name, abbrev, valDesc, desc string) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, ValDesc: valDesc, OptType: RequiredValue, Desc: desc})
	return ap
}

func (ap *ArgParser) SupportsValidatedString(name, abbrev, valDesc, desc string, validator ValidationFunc) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, ValDesc: valDesc, OptType: Value, Desc: desc, Validator: validator})
	return ap
}

func (ap *ArgParser) SupportsInt(name, abbrev, valDesc, desc string) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, ValDesc: valDesc, OptType: Value, Desc: desc, Validator: isIntStr})
	return ap
}

func (ap *ArgParser) SupportsUint(name, abbrev, valDesc, desc string) *ArgParser {
	ap.SupportOption(&Option{Name: name, Abbrev: abbrev, ValDesc: valDesc, OptType: Value, Desc: desc, Validator: isUintStr})
	return ap
}

// Parse splits |args| into named options and positional arguments. Values
// may follow their option as the next argument or be joined with '='.
// Everything after a bare "--" is positional. -h and --help return ErrHelp.
func (ap *ArgParser) Parse(args []string) (*ArgParseResults, error) {
	named := make(map[string]string)
	positional := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if len(arg) < 2 || arg[0] != '-' {
			positional = append(positional, arg)
			continue
		}

		name := strings.TrimLeft(arg, "-")
		if name == helpFlag || name == helpFlagAbbrev {
			return nil, ErrHelp
		}

		var value *string
		if n, v, ok := strings.Cut(name, "="); ok {
			name, value = n, &v
		}

		opt, ok := ap.byName[name]
		if !ok {
			return nil, UnknownArgumentParam{name: name}
		}
		if _, exists := named[opt.Name]; exists {
			return nil, errors.New("error: multiple values provided for `" + opt.Name + "'")
		}

		if opt.OptType == Flag {
			if value != nil {
				return nil, fmt.Errorf("error: flag `%s' does not take a value", opt.Name)
			}
			named[opt.Name] = ""
			continue
		}

		if value == nil {
			if i+1 >= len(args) {
				return nil, errors.New("error: no value for option `" + opt.Name + "'")
			}
			i++
			value = &args[i]
		}
		if opt.Validator != nil {
			if err := opt.Validator(*value); err != nil {
				return nil, err
			}
		}
		named[opt.Name] = *value
	}

	if ap.MaxArgs != -1 && len(positional) > ap.MaxArgs {
		if ap.MaxArgs == 0 {
			return nil, fmt.Errorf("error: %s does not take positional arguments, but found %d: %s", ap.Name, len(positional), strings.Join(positional, ", "))
		}
		return nil, fmt.Errorf("error: %s has too many positional arguments. Expected at most %d, found %d: %s", ap.Name, ap.MaxArgs, len(positional), strings.Join(positional, ", "))
	}

	for _, opt := range ap.Supported {
		if opt.OptType == RequiredValue {
			if _, ok := named[opt.Name]; !ok {
				return nil, fmt.Errorf("option '%s' is required", opt.Name)
			}
		}
	}

	return &ArgParseResults{options: named, Args: positional}, nil
}

// PrintUsage writes one line per supported option to |w|.
func (ap *ArgParser) PrintUsage(w io.Writer) {
	for _, opt := range ap.Supported {
		var b strings.Builder
		if opt.Abbrev != "" {
			b.WriteString("-" + opt.Abbrev + ", ")
		}
		b.WriteString("--" + opt.Name)
		if opt.OptType != Flag {
			b.WriteString(" <" + opt.ValDesc + ">")
		}
		fmt.Fprintf(w, "  %-28s %s\n", b.String(), opt.Desc)
	}
}
