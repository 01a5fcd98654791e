package corpus

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// yamlCandidates is the mapping form of a YAML candidate file.
type yamlCandidates struct {
	Candidates []string `yaml:"candidates"`
}

// LoadYAML reads a YAML sequence of strings, or a mapping whose
// "candidates" key holds one.
func LoadYAML(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading YAML candidates: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parsing YAML candidates: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	root := node.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var list []string
		if err := root.Decode(&list); err != nil {
			return nil, fmt.Errorf("decoding YAML candidate list: %w", err)
		}
		return list, nil
	case yaml.MappingNode:
		var doc yamlCandidates
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decoding YAML candidates mapping: %w", err)
		}
		return doc.Candidates, nil
	default:
		return nil, fmt.Errorf("YAML candidates must be a list or a mapping with a candidates key")
	}
}
