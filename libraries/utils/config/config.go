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

package config

import (
	"os"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	goerrors "gopkg.in/src-d/go-errors.v1"
	"gopkg.in/yaml.v2"

	"github.com/dolthub/fbclient/store/val"
)

var (
	ErrInvalidSegmentSize = goerrors.NewKind("segment_size must be between 1 and %d, got %d")
	ErrInvalidRetries     = goerrors.NewKind("max_empty_segment_retries must not be negative, got %d")
)

// BlobYAMLConfig configures blob streaming.
type BlobYAMLConfig struct {
	SegmentSize            int `yaml:"segment_size" default:"32767"`
	MaxEmptySegmentRetries int `yaml:"max_empty_segment_retries" default:"16"`
}

// LogYAMLConfig configures the engine's logger.
type LogYAMLConfig struct {
	Level string `yaml:"level,omitempty" default:"info"`
	JSON  bool   `yaml:"json,omitempty"`
}

// MetricsYAMLConfig configures the prometheus collectors.
type MetricsYAMLConfig struct {
	Namespace string            `yaml:"namespace,omitempty" default:"fbclient"`
	Labels    map[string]string `yaml:"labels,omitempty"`
}

// EngineConfig is the configuration of the row buffer engine.
type EngineConfig struct {
	Blob    BlobYAMLConfig    `yaml:"blob"`
	Log     LogYAMLConfig     `yaml:"log"`
	Metrics MetricsYAMLConfig `yaml:"metrics"`
}

// Default returns the configuration used when no file is given.
func Default() *EngineConfig {
	cfg := &EngineConfig{}
	if err := defaults.Set(cfg); err != nil {
		panic(err)
	}
	return cfg
}

// Load parses |data| over the defaults and validates the result. Fields
// set explicitly, zeros included, are kept.
func Load(data []byte) (*EngineConfig, error) {
	cfg := &EngineConfig{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalStrict(data, cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing engine config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads and parses the config at |path|.
func LoadFile(path string) (*EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading engine config '%s'", path)
	}
	return Load(data)
}

func (cfg *EngineConfig) Validate() error {
	if cfg.Blob.SegmentSize < 1 || cfg.Blob.SegmentSize > val.MaxSegmentSize {
		return ErrInvalidSegmentSize.New(val.MaxSegmentSize, cfg.Blob.SegmentSize)
	}
	if cfg.Blob.MaxEmptySegmentRetries < 0 {
		return ErrInvalidRetries.New(cfg.Blob.MaxEmptySegmentRetries)
	}
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return err
	}
	return nil
}

// Logger returns a logger configured from |cfg|.
func (cfg *EngineConfig) Logger() *logrus.Logger {
	lgr := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		lgr.SetLevel(lvl)
	}
	if cfg.Log.JSON {
		lgr.SetFormatter(&logrus.JSONFormatter{})
	}
	return lgr
}

// String returns |cfg| as YAML.
func (cfg *EngineConfig) String() string {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "Failed to marshal as yaml: " + err.Error()
	}
	return string(data)
}
