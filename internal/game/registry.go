// Package game holds the game-type registry. Variants are distinguished by
// an explicit tag and dispatched through a lookup table, never by runtime
// type inspection.
package game

import (
	"sort"

	"github.com/ElyraTeam/minigames-backend/internal/models"
)

// ID tags a game variant on the wire and in persistence.
type ID string

const (
	Word        ID = "word"
	Minesweeper ID = "minesweeper"
)

// Descriptor describes one registered game variant.
type Descriptor struct {
	ID    ID
	Name  string
	Stats func() models.GameStats
}

var registry = map[ID]Descriptor{}

// Register adds a variant to the registry. Called during startup wiring.
func Register(d Descriptor) {
	registry[d.ID] = d
}

// Lookup returns the descriptor for a tag.
func Lookup(id ID) (Descriptor, bool) {
	d, ok := registry[id]
	return d, ok
}

// Valid reports whether the tag names a registered variant.
func Valid(id ID) bool {
	_, ok := registry[id]
	return ok
}

// All returns every registered descriptor in stable tag order.
func All() []Descriptor {
	out := make([]Descriptor, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
