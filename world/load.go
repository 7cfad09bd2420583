package world

import (
	"fmt"
	"log/slog"
	"os"

	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/oomph-ac/climber/oerror"
	"gopkg.in/yaml.v3"
)

// LevelFile is the on-disk description of a level.
type LevelFile struct {
	Objects []ObjectSpec `yaml:"objects"`
}

// ObjectSpec describes one box collider. Min and Max are opposite corners in world units.
type ObjectSpec struct {
	Name  string     `yaml:"name"`
	Types []string   `yaml:"types"`
	Min   [3]float64 `yaml:"min"`
	Max   [3]float64 `yaml:"max"`
}

// LoadLevel reads a YAML level file and builds a Level from it.
func LoadLevel(path string, logger *slog.Logger) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read level %s: %w", path, err)
	}
	var file LevelFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode level %s: %w", path, err)
	}
	return file.Build(logger)
}

// Build creates a Level containing every object in the file.
func (f LevelFile) Build(logger *slog.Logger) (*Level, error) {
	l := New(logger)
	for i, spec := range f.Objects {
		types := spec.Types
		if len(types) == 0 {
			types = []string{"world_static"}
		}
		t, err := ParseObjectTypes(types)
		if err != nil {
			return nil, fmt.Errorf("object %d (%s): %w", i, spec.Name, err)
		}
		for axis := range 3 {
			if spec.Min[axis] >= spec.Max[axis] {
				return nil, oerror.New("object %d (%s) has an empty extent on axis %d", i, spec.Name, axis)
			}
		}
		l.AddObject(spec.Name, t, df_cube.Box(
			spec.Min[0], spec.Min[1], spec.Min[2],
			spec.Max[0], spec.Max[1], spec.Max[2],
		))
	}
	return l, nil
}
