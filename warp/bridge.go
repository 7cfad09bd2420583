package warp

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/game"
)

// Bridge publishes warp targets computed by the climb controller into a table it does not own.
type Bridge struct {
	table *Table
	// OnSet is called after every target written through the bridge.
	OnSet func(a Anchor, pos mgl64.Vec3)
}

// NewBridge returns a bridge writing into the table passed. A nil table turns every write into a no-op.
func NewBridge(table *Table) *Bridge {
	return &Bridge{table: table}
}

// SetTarget overwrites the target of the anchor. Nothing happens if the bridge has no table.
func (b *Bridge) SetTarget(a Anchor, pos mgl64.Vec3) {
	if b == nil || b.table == nil {
		return
	}
	b.table.Set(a.Name(), game.Vec64To32(pos))
	if b.OnSet != nil {
		b.OnSet(a, pos)
	}
}
