package world

import (
	"strings"

	df_cube "github.com/df-mc/dragonfly/server/block/cube"
	"github.com/ethaniccc/float32-cube/cube"
	"github.com/oomph-ac/climber/game"
	"github.com/oomph-ac/climber/oerror"
)

// ObjectType is a bit set of collision channels. Queries pass a filter and only objects whose type
// intersects the filter are considered.
type ObjectType uint32

const (
	ObjectWorldStatic ObjectType = 1 << iota
	ObjectWorldDynamic
	ObjectPawn

	ObjectNone ObjectType = 0
	ObjectAll  ObjectType = ObjectWorldStatic | ObjectWorldDynamic | ObjectPawn
)

var objectTypeNames = map[string]ObjectType{
	"world_static":  ObjectWorldStatic,
	"world_dynamic": ObjectWorldDynamic,
	"pawn":          ObjectPawn,
}

// ParseObjectTypes combines the named object types into a single filter.
func ParseObjectTypes(names []string) (ObjectType, error) {
	var t ObjectType
	for _, name := range names {
		v, ok := objectTypeNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return ObjectNone, oerror.New("unknown object type %q", name)
		}
		t |= v
	}
	return t, nil
}

// Matches returns true if t shares at least one channel with filter.
func (t ObjectType) Matches(filter ObjectType) bool {
	return t&filter != 0
}

// ObjectID identifies an object inside a Level.
type ObjectID uint32

// Object is a single axis aligned collider in a level. Boxes are stored in single precision to keep
// large levels compact; queries run in double precision.
type Object struct {
	ID   ObjectID
	Name string
	Type ObjectType
	Box  cube.BBox
}

// BBox returns the object's collider in double precision.
func (o Object) BBox() df_cube.BBox {
	return game.CubeBoxToDFBox(o.Box)
}
