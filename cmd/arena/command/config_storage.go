package command

import (
	"fmt"
	"os"

	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/storage"
)

type StorageConfig struct {
	Shapes AssetConfig `json:"shapes"`
}

func (c *StorageConfig) validate() error {
	return c.Shapes.validate("shapes")
}

// BuildShapes returns the built in catalog with any configured overrides
// applied.
func (c *StorageConfig) BuildShapes() (game.Shapes, error) {
	shapes := game.DefaultShapes()
	if c.Shapes.Path == "" {
		return shapes, nil
	}

	overrides, err := storage.LoadShapes(c.Shapes.Path)
	if err != nil {
		return nil, err
	}
	return shapes.With(overrides), nil
}

// AssetConfig points at an optional asset directory.
type AssetConfig struct {
	Path string `json:"path"`
}

func (c *AssetConfig) validate(name string) error {
	if c.Path == "" {
		return nil
	}
	info, err := os.Stat(c.Path)
	if err != nil {
		return fmt.Errorf("%s: invalid path %q: %w", name, c.Path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: path %q is not a directory", name, c.Path)
	}

	return nil
}
