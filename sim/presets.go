package sim

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Preset is a named station configuration from presets.yaml.
// Fields left out of the file keep their DefaultConfig values.
type Preset struct {
	Description string `yaml:"description" json:"description"`
	Config      `yaml:",inline"`
}

// PresetFile represents the full presets.yaml structure.
type PresetFile struct {
	Version string            `yaml:"version"`
	Presets map[string]Preset `yaml:"presets"`
}

// LoadPresets reads and parses a presets file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadPresets(path string) (*PresetFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading presets: %w", err)
	}
	pf, err := ParsePresets(data)
	if err != nil {
		return nil, fmt.Errorf("parsing presets %s: %w", path, err)
	}
	return pf, nil
}

// ParsePresets decodes presets YAML, filling omitted fields from DefaultConfig.
func ParsePresets(data []byte) (*PresetFile, error) {
	var raw struct {
		Version string               `yaml:"version"`
		Presets map[string]yaml.Node `yaml:"presets"`
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, err
	}

	pf := &PresetFile{Version: raw.Version, Presets: make(map[string]Preset, len(raw.Presets))}
	for name, node := range raw.Presets {
		p := Preset{Config: DefaultConfig()}
		if err := decodeStrict(&node, &p); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
		pf.Presets[name] = p
	}
	return pf, nil
}

// decodeStrict re-encodes node so the decoder can reject unknown preset keys;
// yaml.Node.Decode has no KnownFields switch.
func decodeStrict(node *yaml.Node, out *Preset) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return err
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	return decoder.Decode(out)
}

// Names returns the preset names in sorted order.
func (pf *PresetFile) Names() []string {
	names := make([]string, 0, len(pf.Presets))
	for name := range pf.Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the configuration of the named preset.
func (pf *PresetFile) Lookup(name string) (Config, error) {
	p, ok := pf.Presets[name]
	if !ok {
		return Config{}, fmt.Errorf("unknown preset %q (available: %v)", name, pf.Names())
	}
	return p.Config, nil
}
