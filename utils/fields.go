package utils

import (
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

// Fields is an insertion ordered bag of diagnostic values attached to log lines.
type Fields struct {
	m *orderedmap.OrderedMap[string, any]
}

func NewFields() *Fields {
	return &Fields{m: orderedmap.NewOrderedMap[string, any]()}
}

// Set sets a value, keeping the position of the key if it was set before.
func (f *Fields) Set(key string, val any) *Fields {
	f.m.Set(key, val)
	return f
}

func (f *Fields) Len() int {
	return f.m.Len()
}

// Args returns the fields as slog key/value arguments.
func (f *Fields) Args() []any {
	args := make([]any, 0, f.m.Len()*2)
	for el := f.m.Front(); el != nil; el = el.Next() {
		args = append(args, el.Key, el.Value)
	}
	return args
}

// String formats the fields as "[a=1 b=2]".
func (f *Fields) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for el := f.m.Front(); el != nil; el = el.Next() {
		if el != f.m.Front() {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%v", el.Key, el.Value)
	}
	sb.WriteByte(']')
	return sb.String()
}
