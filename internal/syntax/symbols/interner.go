package symbols

import (
	"fmt"

	"fortio.org/safecast"
)

// ID is the dense identifier for an interned name.
type ID uint32

// Interner maps names to dense [ID]s, the same name always gets the same ID.
//
// The interner owns copies of the names it is given so nothing it holds keeps
// a source file's text alive.
type Interner struct {
	ids   map[string]ID
	names []string
}

// NewInterner returns a new, empty [Interner].
func NewInterner() *Interner {
	return &Interner{
		ids: make(map[string]ID),
	}
}

// Intern returns the ID of name, assigning the next free one if it has not
// been seen before.
func (in *Interner) Intern(name string) ID {
	if id, ok := in.ids[name]; ok {
		return id
	}

	next, err := safecast.Conv[uint32](len(in.names))
	if err != nil {
		panic(fmt.Errorf("interner overflow: %w", err))
	}

	owned := string([]byte(name))
	id := ID(next)

	in.names = append(in.names, owned)
	in.ids[owned] = id

	return id
}

// Lookup returns the name with the given ID.
func (in *Interner) Lookup(id ID) (string, bool) {
	if int(id) >= len(in.names) {
		return "", false
	}

	return in.names[id], true
}

// Len returns the number of distinct names interned.
func (in *Interner) Len() int {
	return len(in.names)
}
