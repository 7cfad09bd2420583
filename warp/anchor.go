package warp

// Anchor is a named point in world space that a transition clip aligns the character to.
type Anchor uint8

const (
	AnchorVaultStart Anchor = iota
	AnchorVaultEnd
	AnchorHopUp
)

// Anchors lists every anchor.
var Anchors = []Anchor{AnchorVaultStart, AnchorVaultEnd, AnchorHopUp}

// AnchorFromName returns the anchor with the given name.
func AnchorFromName(name string) (Anchor, bool) {
	for _, a := range Anchors {
		if a.Name() == name {
			return a, true
		}
	}
	return 0, false
}

// Name returns the stable name the animation side looks the anchor up by.
func (a Anchor) Name() string {
	switch a {
	case AnchorVaultStart:
		return "VaultStartPoint"
	case AnchorVaultEnd:
		return "VaultEndPoint"
	case AnchorHopUp:
		return "HopUpTargetPoint"
	}
	panic("unknown warp anchor")
}

func (a Anchor) String() string {
	return a.Name()
}
