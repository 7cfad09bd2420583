package simulation

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/character"
	"github.com/oomph-ac/climber/oerror"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted run: the characters to spawn and the inputs they receive.
type Scenario struct {
	Characters []Actor `yaml:"characters"`
}

// Actor is a character spawned by a scenario. It enters the simulation on tick At, and its action ticks
// count from the start of the scenario.
type Actor struct {
	Name    string     `yaml:"name"`
	At      int64      `yaml:"at"`
	Spawn   [3]float64 `yaml:"spawn"`
	Yaw     float64    `yaml:"yaw"`
	Actions []Action   `yaml:"actions"`
}

// ActionKind is the input an action feeds to a character.
type ActionKind string

const (
	ActionMove   ActionKind = "move"
	ActionLook   ActionKind = "look"
	ActionToggle ActionKind = "toggle"
	ActionHop    ActionKind = "hop"
)

// Action is input applied to a character from tick At up to and including tick Until. An Until of zero
// applies the action on tick At only.
type Action struct {
	At    int64      `yaml:"at"`
	Until int64      `yaml:"until"`
	Do    ActionKind `yaml:"do"`
	// Input is the move vector, X moving right and Y moving forward.
	Input [2]float64 `yaml:"input"`
	// Yaw is the look delta in degrees per tick.
	Yaw float64 `yaml:"yaw"`
}

// LoadScenario reads a scenario from a YAML file.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario %s: %w", path, err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return Scenario{}, fmt.Errorf("scenario %s: %w", path, err)
	}
	return s, nil
}

// ParseScenario decodes and validates a YAML scenario.
func ParseScenario(data []byte) (Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return Scenario{}, fmt.Errorf("decode: %w", err)
	}
	return s, s.Validate()
}

func (s Scenario) Validate() error {
	for i, a := range s.Characters {
		if a.Name == "" {
			return oerror.New("character %d has no name", i)
		}
		if a.At < 0 {
			return oerror.New("character %s spawns at negative tick %d", a.Name, a.At)
		}
		for j, act := range a.Actions {
			if err := act.Validate(); err != nil {
				return fmt.Errorf("character %s action %d: %w", a.Name, j, err)
			}
		}
	}
	return nil
}

func (a Action) Validate() error {
	switch a.Do {
	case ActionMove, ActionLook, ActionToggle, ActionHop:
	default:
		return oerror.New("unknown action %q", a.Do)
	}
	if a.At < 0 {
		return oerror.New("negative start tick %d", a.At)
	}
	if a.Until != 0 && a.Until < a.At {
		return oerror.New("action ends at tick %d before it starts at %d", a.Until, a.At)
	}
	return nil
}

// Active returns true if the action applies on the given tick.
func (a Action) Active(tick int64) bool {
	if a.Until == 0 {
		return tick == a.At
	}
	return tick >= a.At && tick <= a.Until
}

// Apply feeds the action to the character and returns the hop result for hop actions.
func (a Action) Apply(c *character.Character) string {
	switch a.Do {
	case ActionMove:
		c.Move(mgl64.Vec2{a.Input[0], a.Input[1]})
	case ActionLook:
		c.Look(a.Yaw)
	case ActionToggle:
		c.ToggleClimb()
	case ActionHop:
		return c.Hop().String()
	}
	return ""
}
