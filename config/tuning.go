package config

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/anim"
	"github.com/oomph-ac/climber/game"
	"github.com/oomph-ac/climber/oerror"
	"github.com/oomph-ac/climber/warp"
	"github.com/oomph-ac/climber/world"
	"gopkg.in/yaml.v3"
)

// Tuning holds every constant the climb controller reads. A character copies its tuning when it is
// created, so a reload only affects characters created afterwards.
type Tuning struct {
	Probe      ProbeTuning      `yaml:"probe"`
	Climb      ClimbTuning      `yaml:"climb"`
	Entry      EntryTuning      `yaml:"entry"`
	Hop        HopTuning        `yaml:"hop"`
	Capsule    CapsuleTuning    `yaml:"capsule"`
	Locomotion LocomotionTuning `yaml:"locomotion"`

	// ClimbableTypes are the object types probes consider climbable.
	ClimbableTypes []string `yaml:"climbable_types"`
	// Clips maps clip names to their playback settings.
	Clips map[string]ClipTuning `yaml:"clips"`
}

// ProbeTuning describes the climbable surface probes.
type ProbeTuning struct {
	CapsuleRadius     float64 `yaml:"capsule_radius"`
	CapsuleHalfHeight float64 `yaml:"capsule_half_height"`
	// ForwardOffset is how far in front of the character the capsule probe starts.
	ForwardOffset    float64 `yaml:"forward_offset"`
	EyeHeight        float64 `yaml:"eye_height"`
	EyeTraceDistance float64 `yaml:"eye_trace_distance"`
	Debug            bool    `yaml:"debug"`
}

type ClimbTuning struct {
	MaxSpeed               float64 `yaml:"max_speed"`
	MaxAcceleration        float64 `yaml:"max_acceleration"`
	MaxBrakingDeceleration float64 `yaml:"max_braking_deceleration"`
	// StopAngle is the angle in degrees between the surface normal and world up at or under which a
	// surface counts as floor or ceiling-top and climbing stops.
	StopAngle              float64 `yaml:"stop_angle"`
	FloorTraceOffset       float64 `yaml:"floor_trace_offset"`
	FloorNormalThreshold   float64 `yaml:"floor_normal_threshold"`
	FloorVelocityThreshold float64 `yaml:"floor_velocity_threshold"`
	LedgeTraceOffset       float64 `yaml:"ledge_trace_offset"`
	LedgeTraceDepth        float64 `yaml:"ledge_trace_depth"`
	LedgeVelocityThreshold float64 `yaml:"ledge_velocity_threshold"`
	RotationInterpSpeed    float64 `yaml:"rotation_interp_speed"`
}

type EntryTuning struct {
	ClimbDownWalkableOffset float64 `yaml:"climb_down_walkable_offset"`
	ClimbDownLedgeOffset    float64 `yaml:"climb_down_ledge_offset"`
	WalkableTraceDepth      float64 `yaml:"walkable_trace_depth"`
	LedgeTraceDepth         float64 `yaml:"ledge_trace_depth"`

	VaultSamples    int     `yaml:"vault_samples"`
	VaultStartIndex int     `yaml:"vault_start_index"`
	VaultLandIndex  int     `yaml:"vault_land_index"`
	VaultStep       float64 `yaml:"vault_step"`
}

type HopTuning struct {
	DotThreshold    float64 `yaml:"dot_threshold"`
	UpEyeOffset     float64 `yaml:"up_eye_offset"`
	SafetyEyeOffset float64 `yaml:"safety_eye_offset"`
}

type CapsuleTuning struct {
	Radius          float64 `yaml:"radius"`
	HalfHeight      float64 `yaml:"half_height"`
	ClimbHalfHeight float64 `yaml:"climb_half_height"`
}

// LocomotionTuning covers the generic walking and falling integration the climb layer runs on top of.
type LocomotionTuning struct {
	MaxWalkSpeed               float64 `yaml:"max_walk_speed"`
	MaxAcceleration            float64 `yaml:"max_acceleration"`
	GroundFriction             float64 `yaml:"ground_friction"`
	WalkingBrakingDeceleration float64 `yaml:"walking_braking_deceleration"`
	FallingBrakingDeceleration float64 `yaml:"falling_braking_deceleration"`
	AirControl                 float64 `yaml:"air_control"`
	Gravity                    float64 `yaml:"gravity"`
	// WalkableFloorZ is the minimum up component of a surface normal the character can stand on.
	WalkableFloorZ float64 `yaml:"walkable_floor_z"`
	// RotationRate is the yaw speed in degrees per second used while orienting to movement.
	RotationRate float64 `yaml:"rotation_rate"`
	MinTickTime  float64 `yaml:"min_tick_time"`
	// LandingDistance is how far below the character a floor is searched for when a clip ends on top of
	// something.
	LandingDistance float64 `yaml:"landing_distance"`
}

// ClipTuning describes the playback of a single clip.
type ClipTuning struct {
	Duration   float64             `yaml:"duration"`
	BlendOut   float64             `yaml:"blend_out"`
	RootMotion []RootMotionSegment `yaml:"root_motion"`
	Warps      []WarpWindow        `yaml:"warps"`
}

// WarpWindow bends a clip's root motion between Start and End seconds so that the bottom of the
// character arrives at the named warp target when the window ends.
type WarpWindow struct {
	Target     string  `yaml:"target"`
	Start      float64 `yaml:"start"`
	End        float64 `yaml:"end"`
	HeightOnly bool    `yaml:"height_only"`
}

// RootMotionSegment is a span of clip driven motion starting at At seconds. Velocity is in character
// space: X forward, Y right and Z up.
type RootMotionSegment struct {
	At       float64    `yaml:"at"`
	Velocity [3]float64 `yaml:"velocity"`
	YawRate  float64    `yaml:"yaw_rate"`
}

// Default returns the stock tuning.
func Default() Tuning {
	return Tuning{
		Probe: ProbeTuning{
			CapsuleRadius:     50,
			CapsuleHalfHeight: 72,
			ForwardOffset:     30,
			EyeHeight:         64,
			EyeTraceDistance:  100,
		},
		Climb: ClimbTuning{
			MaxSpeed:               100,
			MaxAcceleration:        300,
			MaxBrakingDeceleration: 400,
			StopAngle:              60,
			FloorTraceOffset:       50,
			FloorNormalThreshold:   game.ParallelThreshold,
			FloorVelocityThreshold: 10,
			LedgeTraceOffset:       50,
			LedgeTraceDepth:        100,
			LedgeVelocityThreshold: 10,
			RotationInterpSpeed:    5,
		},
		Entry: EntryTuning{
			ClimbDownWalkableOffset: 50,
			ClimbDownLedgeOffset:    50,
			WalkableTraceDepth:      100,
			LedgeTraceDepth:         200,
			VaultSamples:            5,
			VaultStartIndex:         0,
			VaultLandIndex:          3,
			VaultStep:               100,
		},
		Hop: HopTuning{
			DotThreshold:    0.9,
			UpEyeOffset:     -20,
			SafetyEyeOffset: 150,
		},
		Capsule: CapsuleTuning{
			Radius:          42,
			HalfHeight:      96,
			ClimbHalfHeight: 48,
		},
		Locomotion: LocomotionTuning{
			MaxWalkSpeed:               500,
			MaxAcceleration:            2048,
			GroundFriction:             8,
			WalkingBrakingDeceleration: 2000,
			FallingBrakingDeceleration: 1500,
			AirControl:                 0.35,
			Gravity:                    980,
			WalkableFloorZ:             0.71,
			RotationRate:               500,
			MinTickTime:                game.MinTickTime,
			LandingDistance:            150,
		},
		ClimbableTypes: []string{"world_static"},
		Clips: map[string]ClipTuning{
			anim.MontageIdleToClimb.String(): {Duration: 1.2, BlendOut: 0.25},
			anim.MontageClimbDownLedge.String(): {Duration: 1.5, BlendOut: 0.25, RootMotion: []RootMotionSegment{
				{At: 0, Velocity: [3]float64{240, 0, 0}},
				{At: 0.6, Velocity: [3]float64{0, 0, -150}, YawRate: 200},
			}},
			anim.MontageClimbToTop.String(): {Duration: 1.6, BlendOut: 0.25, RootMotion: []RootMotionSegment{
				{At: 0, Velocity: [3]float64{0, 0, 300}},
				{At: 0.8, Velocity: [3]float64{150, 0, 0}},
			}},
			anim.MontageVault.String(): {Duration: 1, BlendOut: 0.2,
				RootMotion: []RootMotionSegment{
					{At: 0, Velocity: [3]float64{0, 0, 700}},
					{At: 0.2, Velocity: [3]float64{600, 0, 0}},
					{At: 0.35, Velocity: [3]float64{1000, 0, 0}},
					{At: 0.6, Velocity: [3]float64{0, 0, -700}},
					{At: 0.75},
				},
				Warps: []WarpWindow{
					{Target: warp.AnchorVaultStart.Name(), Start: 0, End: 0.35},
					{Target: warp.AnchorVaultEnd.Name(), Start: 0.35, End: 0.75},
				},
			},
			anim.MontageHopUp.String(): {Duration: 0.8, BlendOut: 0.2,
				RootMotion: []RootMotionSegment{
					{At: 0, Velocity: [3]float64{0, 0, 250}},
					{At: 0.6},
				},
				Warps: []WarpWindow{{Target: warp.AnchorHopUp.Name(), Start: 0, End: 0.6, HeightOnly: true}},
			},
		},
	}
}

// Load reads a YAML tuning file. Fields missing from the file keep their default values.
func Load(path string) (Tuning, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML tuning data on top of the defaults and validates the result.
func Parse(data []byte) (Tuning, error) {
	t := Default()
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Tuning{}, fmt.Errorf("decode tuning: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Tuning{}, err
	}
	return t, nil
}

// Validate returns an error if any value would make the simulation misbehave.
func (t Tuning) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"probe.capsule_radius", t.Probe.CapsuleRadius},
		{"probe.capsule_half_height", t.Probe.CapsuleHalfHeight},
		{"probe.eye_trace_distance", t.Probe.EyeTraceDistance},
		{"climb.max_speed", t.Climb.MaxSpeed},
		{"climb.max_acceleration", t.Climb.MaxAcceleration},
		{"climb.max_braking_deceleration", t.Climb.MaxBrakingDeceleration},
		{"climb.ledge_trace_depth", t.Climb.LedgeTraceDepth},
		{"entry.walkable_trace_depth", t.Entry.WalkableTraceDepth},
		{"entry.ledge_trace_depth", t.Entry.LedgeTraceDepth},
		{"entry.vault_step", t.Entry.VaultStep},
		{"capsule.radius", t.Capsule.Radius},
		{"capsule.half_height", t.Capsule.HalfHeight},
		{"capsule.climb_half_height", t.Capsule.ClimbHalfHeight},
		{"locomotion.max_walk_speed", t.Locomotion.MaxWalkSpeed},
		{"locomotion.max_acceleration", t.Locomotion.MaxAcceleration},
		{"locomotion.min_tick_time", t.Locomotion.MinTickTime},
		{"locomotion.landing_distance", t.Locomotion.LandingDistance},
	}
	for _, p := range positive {
		if p.v <= 0 {
			return oerror.New("%s must be positive, got %v", p.name, p.v)
		}
	}
	if t.Climb.StopAngle < 0 || t.Climb.StopAngle > 90 {
		return oerror.New("climb.stop_angle must be within [0, 90], got %v", t.Climb.StopAngle)
	}
	if t.Climb.FloorNormalThreshold <= 0 || t.Climb.FloorNormalThreshold > 1 {
		return oerror.New("climb.floor_normal_threshold must be within (0, 1], got %v", t.Climb.FloorNormalThreshold)
	}
	if t.Locomotion.WalkableFloorZ <= 0 || t.Locomotion.WalkableFloorZ > 1 {
		return oerror.New("locomotion.walkable_floor_z must be within (0, 1], got %v", t.Locomotion.WalkableFloorZ)
	}
	if t.Hop.DotThreshold <= 0 || t.Hop.DotThreshold > 1 {
		return oerror.New("hop.dot_threshold must be within (0, 1], got %v", t.Hop.DotThreshold)
	}
	e := t.Entry
	if e.VaultSamples <= 0 || e.VaultStartIndex < 0 || e.VaultLandIndex < 0 ||
		e.VaultStartIndex >= e.VaultSamples || e.VaultLandIndex >= e.VaultSamples {
		return oerror.New("vault sample indices %d and %d must fall within %d samples", e.VaultStartIndex, e.VaultLandIndex, e.VaultSamples)
	}
	if _, err := t.ClimbableFilter(); err != nil {
		return fmt.Errorf("climbable_types: %w", err)
	}
	if _, err := t.AnimClips(); err != nil {
		return err
	}
	return nil
}

// ClimbableFilter returns the object filter probes run with.
func (t Tuning) ClimbableFilter() (world.ObjectType, error) {
	f, err := world.ParseObjectTypes(t.ClimbableTypes)
	if err != nil {
		return world.ObjectNone, err
	}
	if f == world.ObjectNone {
		return world.ObjectNone, oerror.New("no climbable object types")
	}
	return f, nil
}

// AnimClips converts the clip settings into the table an animation instance plays from.
func (t Tuning) AnimClips() (map[anim.Montage]anim.Clip, error) {
	clips := make(map[anim.Montage]anim.Clip, len(t.Clips))
	for name, c := range t.Clips {
		m, ok := anim.MontageFromString(name)
		if !ok {
			return nil, oerror.New("unknown clip %q", name)
		}
		if c.Duration <= 0 || c.BlendOut < 0 || c.BlendOut > c.Duration {
			return nil, oerror.New("clip %q has invalid timing (duration=%v, blend_out=%v)", name, c.Duration, c.BlendOut)
		}
		clip := anim.Clip{Duration: c.Duration, BlendOut: c.BlendOut}
		for i, seg := range c.RootMotion {
			if seg.At < 0 || seg.At >= c.Duration || (i > 0 && seg.At <= c.RootMotion[i-1].At) {
				return nil, oerror.New("clip %q root motion segment %d starts at %v, out of order or outside the clip", name, i, seg.At)
			}
			clip.RootMotion = append(clip.RootMotion, anim.RootMotion{
				At:       seg.At,
				Velocity: mgl64.Vec3(seg.Velocity),
				YawRate:  seg.YawRate,
			})
		}
		for i, w := range c.Warps {
			if _, ok := warp.AnchorFromName(w.Target); !ok {
				return nil, oerror.New("clip %q warp %d targets unknown anchor %q", name, i, w.Target)
			}
			if w.Start < 0 || w.End <= w.Start || w.End > c.Duration || (i > 0 && w.Start < c.Warps[i-1].End) {
				return nil, oerror.New("clip %q warp %d spans [%v, %v], overlapping or outside the clip", name, i, w.Start, w.End)
			}
			clip.Warps = append(clip.Warps, anim.Warp(w))
		}
		clips[m] = clip
	}
	return clips, nil
}
