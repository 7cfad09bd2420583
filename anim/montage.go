package anim

// Montage identifies one of the transition clips the climb controller can play.
type Montage uint8

const (
	MontageNone Montage = iota
	MontageIdleToClimb
	MontageClimbDownLedge
	MontageClimbToTop
	MontageVault
	MontageHopUp
	MontageHopDown
)

// Montages lists every playable clip.
var Montages = []Montage{
	MontageIdleToClimb,
	MontageClimbDownLedge,
	MontageClimbToTop,
	MontageVault,
	MontageHopUp,
	MontageHopDown,
}

func (m Montage) String() string {
	switch m {
	case MontageIdleToClimb:
		return "idle_to_climb"
	case MontageClimbDownLedge:
		return "climb_down_ledge"
	case MontageClimbToTop:
		return "climb_to_top"
	case MontageVault:
		return "vault"
	case MontageHopUp:
		return "hop_up"
	case MontageHopDown:
		return "hop_down"
	}
	return "none"
}

// MontageFromString returns the clip with the given name.
func MontageFromString(name string) (Montage, bool) {
	for _, m := range Montages {
		if m.String() == name {
			return m, true
		}
	}
	return MontageNone, false
}
