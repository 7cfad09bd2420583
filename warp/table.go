package warp

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/climber/game"
)

// Table holds warp targets by name. It is owned by the animation side of a character and keeps targets in
// the order they were first set.
type Table struct {
	targets *orderedmap.OrderedMap[string, mgl32.Vec3]
}

// NewTable returns an empty warp target table.
func NewTable() *Table {
	return &Table{targets: orderedmap.NewOrderedMap[string, mgl32.Vec3]()}
}

// Set adds or overwrites the target with the given name.
func (t *Table) Set(name string, pos mgl32.Vec3) {
	t.targets.Set(name, pos)
}

// Get returns the target with the given name.
func (t *Table) Get(name string) (mgl32.Vec3, bool) {
	return t.targets.Get(name)
}

// Anchor returns the target of the anchor in double precision.
func (t *Table) Anchor(a Anchor) (mgl64.Vec3, bool) {
	v, ok := t.targets.Get(a.Name())
	return game.Vec32To64(v), ok
}

// Delete removes the target with the given name.
func (t *Table) Delete(name string) bool {
	return t.targets.Delete(name)
}

// Len returns the number of targets in the table.
func (t *Table) Len() int {
	return t.targets.Len()
}

func (t *Table) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, name := range t.targets.Keys() {
		if i > 0 {
			b.WriteByte(' ')
		}
		v, _ := t.targets.Get(name)
		fmt.Fprintf(&b, "%s=(%.2f, %.2f, %.2f)", name, v[0], v[1], v[2])
	}
	b.WriteByte(']')
	return b.String()
}
