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
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/dolthub/fbclient/libraries/utils/argparser"
	"github.com/dolthub/fbclient/libraries/utils/config"
	"github.com/dolthub/fbclient/store/rowbuf"
	"github.com/dolthub/fbclient/store/val"
)

const (
	configParam = "config"
	jsonFlag    = "json"
)

type columnYAML struct {
	Name     string `yaml:"name"`
	Relation string `yaml:"relation,omitempty"`
	Owner    string `yaml:"owner,omitempty"`
	Alias    string `yaml:"alias,omitempty"`
	Type     string `yaml:"type"`
	Nullable bool   `yaml:"nullable,omitempty"`
	Length   int    `yaml:"length,omitempty"`
	Scale    int    `yaml:"scale,omitempty"`
	Subtype  int    `yaml:"subtype,omitempty"`
}

type descriptorFile struct {
	Columns []columnYAML `yaml:"columns"`
}

// ParseDescriptors reads a YAML list of column descriptors, the form the
// layout command accepts.
func ParseDescriptors(data []byte) ([]rowbuf.ColumnDescriptor, error) {
	var f descriptorFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, errors.Wrap(err, "invalid descriptor file")
	}
	if len(f.Columns) == 0 {
		return nil, errors.New("descriptor file has no columns")
	}

	descs := make([]rowbuf.ColumnDescriptor, len(f.Columns))
	for i, c := range f.Columns {
		wt, err := val.ParseWireType(c.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "column %d (%s)", i, c.Name)
		}
		descs[i] = rowbuf.ColumnDescriptor{
			Type:     wt,
			Nullable: c.Nullable,
			Length:   c.Length,
			Scale:    c.Scale,
			Subtype:  c.Subtype,
			Name:     c.Name,
			Relation: c.Relation,
			Owner:    c.Owner,
			Alias:    c.Alias,
		}
	}
	return descs, nil
}

func loadConfig(apr *argparser.ArgParseResults) (*config.EngineConfig, error) {
	path, ok := apr.GetValue(configParam)
	if !ok {
		return config.Default(), nil
	}
	return config.LoadFile(path)
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read '%s'", path)
	}
	return data, nil
}
