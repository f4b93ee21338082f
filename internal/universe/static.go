package universe

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"CrossSentinel/internal/model"

	"gopkg.in/yaml.v3"
)

//go:embed data/kospi200.yaml
var kospi200YAML []byte

// StaticProvider serves a fixed list of symbols.
type StaticProvider struct {
	name    string
	symbols []model.Symbol
}

type symbolFile struct {
	Symbols []model.Symbol `yaml:"symbols"`
}

// ParseStatic decodes a YAML document with a top-level "symbols" list.
func ParseStatic(name string, data []byte) (*StaticProvider, error) {
	var f symbolFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse universe %s: %w", name, err)
	}
	symbols := make([]model.Symbol, 0, len(f.Symbols))
	seen := make(map[string]bool, len(f.Symbols))
	for _, s := range f.Symbols {
		if s.Code == "" || seen[s.Code] {
			continue
		}
		seen[s.Code] = true
		if s.Name == "" {
			s.Name = s.Code
		}
		symbols = append(symbols, s)
	}
	if len(symbols) == 0 {
		return nil, fmt.Errorf("universe %s: no symbols", name)
	}
	return &StaticProvider{name: name, symbols: symbols}, nil
}

// LoadStaticFile reads a YAML universe file from disk.
func LoadStaticFile(path string) (*StaticProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read universe: %w", err)
	}
	return ParseStatic(path, data)
}

// KOSPI200 returns the bundled KOSPI 200 list.
func KOSPI200() *StaticProvider {
	p, err := ParseStatic("kospi200", kospi200YAML)
	if err != nil {
		panic(err)
	}
	return p
}

func (p *StaticProvider) Name() string { return "static:" + p.name }

func (p *StaticProvider) Symbols(_ context.Context) ([]model.Symbol, error) {
	out := make([]model.Symbol, len(p.symbols))
	copy(out, p.symbols)
	return out, nil
}
