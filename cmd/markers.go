package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// markersFile is the mapping form of a marker list:
//
//	markers:
//	  - Assets/Sprites/hero.png
//	  - Assets/Sprites/villain.png
//
// A bare YAML sequence of names is accepted too.
type markersFile struct {
	Markers []string `yaml:"markers"`
}

func loadMarkersFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseMarkers(data)
}

func parseMarkers(data []byte) ([]string, error) {
	var document yaml.Node
	if err := yaml.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("parsing marker list: %w", err)
	}
	// Empty file.
	if len(document.Content) == 0 {
		return nil, nil
	}

	root := document.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var names []string
		if err := root.Decode(&names); err != nil {
			return nil, fmt.Errorf("parsing marker list: %w", err)
		}
		return names, nil
	case yaml.MappingNode:
		var file markersFile
		if err := root.Decode(&file); err != nil {
			return nil, fmt.Errorf("parsing marker list: %w", err)
		}
		return file.Markers, nil
	default:
		return nil, fmt.Errorf(
			"marker list must be a sequence or a mapping with a `markers` key, line %d",
			root.Line)
	}
}
