package anim

import (
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// warpEpsilon is the authored displacement below which an axis is treated as not moving during a warp.
const warpEpsilon = 1e-6

// EndFunc is called when a clip blends out or ends. interrupted is true when the clip was stopped before
// it could finish on its own.
type EndFunc func(m Montage, interrupted bool)

// Player is the animation side of a character as seen by the climb controller.
type Player interface {
	// IsAnyMontagePlaying returns true while any clip is active, including during its blend out.
	IsAnyMontagePlaying() bool
	// Play starts the clip. It returns false if the clip could not be started.
	Play(m Montage) bool
	// Stop interrupts the active clip, if any.
	Stop()
	// OnMontageEnded registers a function called when a clip finishes.
	OnMontageEnded(f EndFunc)
	// OnMontageBlendingOut registers a function called when a clip starts blending out.
	OnMontageBlendingOut(f EndFunc)
}

// RootMotionReceiver accepts the motion a playing clip drives the character with. velocity is in world
// space and yawRate is in degrees per second around world up.
type RootMotionReceiver interface {
	SetRootMotion(velocity mgl64.Vec3, yawRate float64, active bool)
	// RootLocation returns the point warp targets are matched against, the bottom of the character.
	RootLocation() mgl64.Vec3
}

// TargetTable resolves warp targets by name.
type TargetTable interface {
	Get(name string) (mgl32.Vec3, bool)
}

// Warp bends the root motion of a clip so that the root arrives at a named target when the window ends.
// The authored motion keeps its shape and is only scaled per axis.
type Warp struct {
	Target     string
	Start, End float64
	// HeightOnly warps the vertical axis and leaves horizontal motion as authored.
	HeightOnly bool
}

// RootMotion is a segment of clip driven motion. It lasts until the next segment starts or the clip ends.
type RootMotion struct {
	// At is the clip time in seconds the segment starts at.
	At float64
	// Velocity is in character space: X forward, Y right and Z up.
	Velocity mgl64.Vec3
	YawRate  float64
}

// Clip describes how a montage plays back.
type Clip struct {
	// Duration is the total play time in seconds.
	Duration float64
	// BlendOut is the time before the end at which the blending out signal fires.
	BlendOut float64
	// RootMotion holds the motion segments ordered by start time. Clips without segments or warps leave
	// the character to its regular movement.
	RootMotion []RootMotion
	// Warps holds windows that do not overlap, ordered by start time.
	Warps []Warp
}

func (c Clip) drivesRoot() bool {
	return len(c.RootMotion) > 0 || len(c.Warps) > 0
}

// warpAt returns the warp window active at the given clip time.
func (c Clip) warpAt(t float64) (Warp, bool) {
	for _, w := range c.Warps {
		if t >= w.Start && t < w.End {
			return w, true
		}
	}
	return Warp{}, false
}

// displacement returns the authored root displacement between two clip times, in character space.
func (c Clip) displacement(from, to float64) mgl64.Vec3 {
	var d mgl64.Vec3
	for n, s := range c.RootMotion {
		end := c.Duration
		if n+1 < len(c.RootMotion) {
			end = c.RootMotion[n+1].At
		}
		lo, hi := math.Max(s.At, from), math.Min(end, to)
		if hi > lo {
			d = d.Add(s.Velocity.Mul(hi - lo))
		}
	}
	return d
}

// segment returns the root motion segment active at the given clip time.
func (c Clip) segment(t float64) (RootMotion, bool) {
	var (
		seg RootMotion
		ok  bool
	)
	for _, s := range c.RootMotion {
		if s.At > t {
			break
		}
		seg, ok = s, true
	}
	return seg, ok
}

// Instance is a minimal single-slot montage player. Playback only advances through Tick, and every
// signal fires synchronously from within Tick or Stop.
type Instance struct {
	clips map[Montage]Clip

	active      Montage
	elapsed     float64
	step        float64
	blendingOut bool

	ended          []EndFunc
	blendingOutFns []EndFunc

	// Root receives the root motion of the playing clip, converted to world space using Basis.
	Root  RootMotionReceiver
	Basis func() (forward, right, up mgl64.Vec3)
	// Targets holds the warp targets clips are bent towards. Warps whose target is missing play as
	// authored.
	Targets TargetTable

	log *slog.Logger
}

var _ Player = (*Instance)(nil)

// NewInstance returns a player for the given clip table. Montages missing from the table cannot be played.
func NewInstance(clips map[Montage]Clip, log *slog.Logger) *Instance {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Instance{clips: clips, log: log}
}

// Active returns the clip currently playing.
func (i *Instance) Active() Montage {
	return i.active
}

// IsAnyMontagePlaying ...
func (i *Instance) IsAnyMontagePlaying() bool {
	return i.active != MontageNone
}

// Play ...
func (i *Instance) Play(m Montage) bool {
	clip, ok := i.clips[m]
	if !ok || i.active != MontageNone {
		return false
	}
	i.active, i.elapsed, i.step, i.blendingOut = m, 0, 0, false
	i.log.Debug("montage started", "montage", m, "duration", clip.Duration)
	i.applyRootMotion(clip)
	return true
}

// Stop ...
func (i *Instance) Stop() {
	if i.active == MontageNone {
		return
	}
	m := i.active
	i.log.Debug("montage interrupted", "montage", m, "elapsed", i.elapsed)
	i.finish(m, true)
}

// OnMontageEnded ...
func (i *Instance) OnMontageEnded(f EndFunc) {
	i.ended = append(i.ended, f)
}

// OnMontageBlendingOut ...
func (i *Instance) OnMontageBlendingOut(f EndFunc) {
	i.blendingOutFns = append(i.blendingOutFns, f)
}

// Tick advances the active clip by dt seconds.
func (i *Instance) Tick(dt float64) {
	if i.active == MontageNone || dt <= 0 {
		return
	}
	m := i.active
	clip := i.clips[m]
	i.elapsed += dt
	i.step = dt

	if !i.blendingOut && i.elapsed >= clip.Duration-clip.BlendOut {
		i.blendingOut = true
		for _, f := range i.blendingOutFns {
			f(m, false)
		}
		// A listener may have started a new clip or stopped this one.
		if i.active != m {
			return
		}
	}
	if i.elapsed >= clip.Duration {
		i.log.Debug("montage ended", "montage", m)
		i.finish(m, false)
		return
	}
	i.applyRootMotion(clip)
}

func (i *Instance) finish(m Montage, interrupted bool) {
	wasBlending := i.blendingOut
	i.active, i.elapsed, i.step, i.blendingOut = MontageNone, 0, 0, false
	if i.Root != nil && i.clips[m].drivesRoot() {
		i.Root.SetRootMotion(mgl64.Vec3{}, 0, false)
	}
	if !wasBlending {
		for _, f := range i.blendingOutFns {
			f(m, interrupted)
		}
	}
	for _, f := range i.ended {
		f(m, interrupted)
	}
}

func (i *Instance) applyRootMotion(clip Clip) {
	if i.Root == nil || i.Basis == nil || !clip.drivesRoot() {
		return
	}
	fwd, right, up := i.Basis()
	toWorld := func(v mgl64.Vec3) mgl64.Vec3 {
		return fwd.Mul(v[0]).Add(right.Mul(v[1])).Add(up.Mul(v[2]))
	}

	seg, ok := clip.segment(i.elapsed)
	v := toWorld(seg.Velocity)
	if w, warping := clip.warpAt(i.elapsed); warping {
		if target, found := i.target(w.Target); found {
			authored := toWorld(clip.displacement(i.elapsed, w.End))
			v = i.warpVelocity(w, target, v, authored)
			ok = true
		}
	}
	if !ok {
		return
	}
	i.Root.SetRootMotion(v, seg.YawRate, true)
}

func (i *Instance) target(name string) (mgl64.Vec3, bool) {
	if i.Targets == nil {
		return mgl64.Vec3{}, false
	}
	v, ok := i.Targets.Get(name)
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}, ok
}

// warpVelocity scales the authored velocity v per world axis so that the authored displacement left in
// the window covers the distance to the target instead. Axes the clip does not move along close the
// distance evenly over the rest of the window.
func (i *Instance) warpVelocity(w Warp, target, v, authored mgl64.Vec3) mgl64.Vec3 {
	remaining := target.Sub(i.Root.RootLocation())
	left := w.End - i.elapsed

	var out mgl64.Vec3
	if i.step > 0 && left <= i.step {
		// The window closes during the next step.
		out = remaining.Mul(1 / i.step)
	} else {
		for k := range 3 {
			if math.Abs(authored[k]) <= warpEpsilon {
				out[k] = remaining[k] / left
				continue
			}
			out[k] = v[k] * remaining[k] / authored[k]
		}
	}
	if w.HeightOnly {
		out[0], out[1] = v[0], v[1]
	}
	return out
}
