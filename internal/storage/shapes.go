package storage

import (
	"fmt"
	"slices"

	"github.com/pixil98/go-arena/internal/game"
)

// LoadShapes reads shape overrides from a directory of assets whose ids are
// entity kinds. Kinds without an asset are absent from the result.
func LoadShapes(path string) (game.Shapes, error) {
	store, err := NewFileStore[*game.Shape](path)
	if err != nil {
		return nil, fmt.Errorf("loading shapes from %s: %w", path, err)
	}
	return ShapesFrom(store)
}

// ShapesFrom converts a store of shapes keyed by kind name.
func ShapesFrom(st Storer[*game.Shape]) (game.Shapes, error) {
	shapes := game.Shapes{}
	for id, s := range st.GetAll() {
		kind := game.Kind(id)
		if !slices.Contains(game.Kinds, kind) {
			return nil, fmt.Errorf("%w: %s", game.ErrUnknownKind, id)
		}
		shapes[kind] = s
	}
	return shapes, nil
}

// SaveShapes writes every shape as its own asset.
func SaveShapes(st Storer[*game.Shape], shapes game.Shapes) error {
	for _, kind := range game.Kinds {
		s, ok := shapes[kind]
		if !ok {
			continue
		}
		if err := st.Save(string(kind), s); err != nil {
			return fmt.Errorf("saving %s: %w", kind, err)
		}
	}
	return nil
}
