package permission

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// matrixDocument is the on-disk shape of a matrix override:
//
//	levels:
//	  editor: {assemble: full, hone: full}
//	capabilities:
//	  editor: [basic_operations]
type matrixDocument struct {
	Levels       map[string]map[string]string `yaml:"levels"`
	Capabilities map[string][]string          `yaml:"capabilities"`
}

// LoadMatrixFile reads a YAML matrix override from path.
func LoadMatrixFile(path string) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read matrix file %s: %w", path, err)
	}
	return ParseMatrix(data)
}

// ParseMatrix validates and builds a Matrix from YAML. Unknown role, stage or level
// names are rejected; pairs left out resolve to none.
func ParseMatrix(data []byte) (*Matrix, error) {
	var doc matrixDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid matrix yaml: %w", err)
	}
	if len(doc.Levels) == 0 {
		return nil, fmt.Errorf("matrix.levels is required")
	}

	levels := make(map[Role]map[StageName]Level, len(doc.Levels))
	for roleName, stages := range doc.Levels {
		role := Role(roleName)
		if !role.IsValid() {
			return nil, fmt.Errorf("matrix.levels references unknown role %q", roleName)
		}
		row := make(map[StageName]Level, len(stages))
		for stageName, levelName := range stages {
			stage := StageName(stageName)
			if !stage.IsValid() {
				return nil, fmt.Errorf("role %s references unknown stage %q", roleName, stageName)
			}
			level := Level(levelName)
			if !level.IsValid() {
				return nil, fmt.Errorf("role %s stage %s has unknown level %q", roleName, stageName, levelName)
			}
			row[stage] = level
		}
		levels[role] = row
	}

	capabilities := make(map[Role][]GlobalCapability, len(doc.Capabilities))
	for roleName, caps := range doc.Capabilities {
		role := Role(roleName)
		if !role.IsValid() {
			return nil, fmt.Errorf("matrix.capabilities references unknown role %q", roleName)
		}
		for _, c := range caps {
			if c == "" {
				return nil, fmt.Errorf("role %s has empty capability", roleName)
			}
			capabilities[role] = append(capabilities[role], GlobalCapability(c))
		}
	}

	return NewMatrix(levels, capabilities), nil
}
