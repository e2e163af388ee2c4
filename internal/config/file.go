package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML wire form of the config file. Pointer fields
// distinguish "absent" from zero values so the file only overrides what
// it actually sets.
type fileConfig struct {
	GOP         *int     `yaml:"gop"`
	Quality     *int     `yaml:"quality"`
	Width       *int     `yaml:"width"`
	FPS         *string  `yaml:"fps"`
	Codec       *string  `yaml:"codec"`
	CRF         *int     `yaml:"crf"`
	Preset      *string  `yaml:"preset"`
	DropPolicy  *string  `yaml:"drop_policy"`
	Postcut     *int     `yaml:"postcut"`
	PostcutRand *string  `yaml:"postcut_rand"`
	HoldSec     *float64 `yaml:"hold_sec"`
	Seed        *int64   `yaml:"seed"`
	AudioMode   *string  `yaml:"audio_mode"`
	AudioFrom   *string  `yaml:"audio_from"`
	Jobs        *int     `yaml:"jobs"`
}

// ApplyFile overlays the YAML file at path onto cfg. Called before flag
// parsing so CLI flags keep precedence. Unknown keys are rejected to
// catch typos early.
func ApplyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&fc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if fc.GOP != nil {
		cfg.GOP = *fc.GOP
	}
	if fc.Quality != nil {
		cfg.Quality = *fc.Quality
	}
	if fc.Width != nil {
		cfg.Width = *fc.Width
	}
	if fc.FPS != nil {
		cfg.FPS = *fc.FPS
	}
	if fc.Codec != nil {
		cfg.OutputCodec = *fc.Codec
	}
	if fc.CRF != nil {
		cfg.DeliveryCRF = *fc.CRF
	}
	if fc.Preset != nil {
		cfg.Preset = *fc.Preset
	}
	if fc.DropPolicy != nil {
		v := dropPolicyValue{&cfg.DropPolicy}
		if err := v.Set(*fc.DropPolicy); err != nil {
			return err
		}
	}
	if fc.Postcut != nil {
		cfg.PostcutFixed = *fc.Postcut
	}
	if fc.PostcutRand != nil {
		cfg.PostcutRand = *fc.PostcutRand
	}
	if fc.HoldSec != nil {
		cfg.HoldSec = *fc.HoldSec
	}
	if fc.Seed != nil {
		cfg.Seed = *fc.Seed
	}
	if fc.AudioMode != nil {
		v := audioModeValue{&cfg.AudioMode}
		if err := v.Set(*fc.AudioMode); err != nil {
			return err
		}
	}
	if fc.AudioFrom != nil {
		cfg.AudioFrom = *fc.AudioFrom
	}
	if fc.Jobs != nil {
		cfg.Jobs = *fc.Jobs
	}
	return nil
}
