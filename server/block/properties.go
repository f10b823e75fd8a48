package block

import (
	_ "embed"
	"fmt"

	"github.com/dm-vev/voxeltick/server/world"
	"gopkg.in/yaml.v3"
)

//go:embed properties.yaml
var propertiesData []byte

type propertiesEntry struct {
	ID          uint16  `yaml:"id"`
	Name        string  `yaml:"name"`
	Hardness    float64 `yaml:"hardness"`
	Light       int     `yaml:"light"`
	Filter      int     `yaml:"filter"`
	Solid       bool    `yaml:"solid"`
	Transparent bool    `yaml:"transparent"`
}

// propertyTable holds the properties of all known block types.
var propertyTable = mustParseProperties(propertiesData)

func mustParseProperties(data []byte) map[world.BlockType]world.Properties {
	table, err := parseProperties(data)
	if err != nil {
		panic(err)
	}
	return table
}

func parseProperties(data []byte) (map[world.BlockType]world.Properties, error) {
	var entries []propertiesEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode block properties: %w", err)
	}
	table := make(map[world.BlockType]world.Properties, len(entries))
	for _, e := range entries {
		t := world.BlockType(e.ID)
		if _, ok := table[t]; ok {
			return nil, fmt.Errorf("decode block properties: block %v listed twice", e.ID)
		}
		if e.Light < 0 || e.Light > 15 || e.Filter < 0 || e.Filter > 15 {
			return nil, fmt.Errorf("decode block properties: light values of %v out of range", e.Name)
		}
		table[t] = world.Properties{
			Name:        e.Name,
			Hardness:    e.Hardness,
			LightLevel:  e.Light,
			LightFilter: e.Filter,
			Solid:       e.Solid,
			Transparent: e.Transparent,
		}
	}
	return table, nil
}

// properties returns the properties of the block type passed.
func properties(t world.BlockType) world.Properties {
	if p, ok := propertyTable[t]; ok {
		return p
	}
	return propertyTable[Air]
}
