// Package config implements declarative scenario persistence (C12): load
// a Scenario from a JSON or YAML file (or reader), and save one back,
// following the same load/save/format-detect shape the mock engine's own
// config loader uses for its MockCollection files.
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/renkon/renkon/scenario"
)

// Common errors for scenario file loading.
var (
	ErrFileNotFound = errors.New("scenario file not found")
	ErrEmptyFile    = errors.New("scenario file is empty")
)

// LoadScenarioFile reads a Scenario from a JSON or YAML file. Format is
// auto-detected from the file extension (.yaml/.yml for YAML, otherwise
// JSON).
func LoadScenarioFile(path string) (*scenario.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read scenario file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	if isYAMLExt(path) {
		return ParseYAML(data)
	}
	return ParseJSON(data)
}

// SaveScenarioFile writes a Scenario to path, formatted according to its
// extension, creating parent directories as needed and writing via a
// temp-file-then-rename so a crash mid-write never leaves a truncated
// file in place.
func SaveScenarioFile(path string, s *scenario.Scenario) error {
	var (
		data []byte
		err  error
	)
	if isYAMLExt(path) {
		data, err = ToYAML(s)
	} else {
		data, err = ToJSON(s)
	}
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temporary file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename temporary file: %w", err)
	}
	return nil
}

// LoadScenario reads and parses a Scenario from r, detecting JSON vs YAML
// by sniffing the first non-whitespace byte (JSON documents always start
// with '{' or '['; anything else is treated as YAML).
func LoadScenario(r io.Reader) (*scenario.Scenario, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	if looksLikeJSON(data) {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseJSON parses JSON bytes into a Scenario.
func ParseJSON(data []byte) (*scenario.Scenario, error) {
	var s scenario.Scenario
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario JSON: %w", err)
	}
	return &s, nil
}

// ParseYAML parses YAML bytes into a Scenario.
func ParseYAML(data []byte) (*scenario.Scenario, error) {
	var s scenario.Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scenario YAML: %w", err)
	}
	return &s, nil
}

// ToJSON marshals a Scenario to indented JSON.
func ToJSON(s *scenario.Scenario) ([]byte, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal scenario JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ToYAML marshals a Scenario to YAML.
func ToYAML(s *scenario.Scenario) ([]byte, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal scenario YAML: %w", err)
	}
	return data, nil
}

func isYAMLExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

func looksLikeJSON(data []byte) bool {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return false
	}
	return trimmed[0] == '{' || trimmed[0] == '['
}
