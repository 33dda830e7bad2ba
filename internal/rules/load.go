package rules

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Load reads a JSON array of rules.
func Load(r io.Reader) ([]*Rule, error) {
	var rules []*Rule
	if err := json.NewDecoder(r).Decode(&rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}
	return rules, nil
}

// LoadEngine builds an engine from a doctrine file, or from the default
// rules when path is empty.
func LoadEngine(path string) (*Engine, error) {
	if path == "" {
		return NewEngine(DefaultRules())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open doctrine: %w", err)
	}
	defer f.Close()
	rules, err := Load(f)
	if err != nil {
		return nil, err
	}
	return NewEngine(rules)
}
