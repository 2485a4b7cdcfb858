// Command arena-shapes writes the built in shape catalog as JSON assets so
// it can be edited and loaded back through storage.shapes.path.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pixil98/go-arena/internal/game"
	"github.com/pixil98/go-arena/internal/prompt"
	"github.com/pixil98/go-arena/internal/storage"
)

func main() {
	dir := flag.String("dir", "assets/shapes", "directory to write shape assets to")
	force := flag.Bool("force", false, "overwrite existing assets without asking")
	flag.Parse()

	if err := run(*dir, *force); err != nil {
		slog.Error("exporting shapes", "error", err)
		os.Exit(1)
	}
}

func run(dir string, force bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	existing, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return err
	}
	if len(existing) > 0 && !force {
		ok, err := prompt.YesNo(os.Stdin, os.Stdout, fmt.Sprintf("%s has %d assets, overwrite? ", dir, len(existing)))
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	store, err := storage.NewFileStore[*game.Shape](dir)
	if err != nil {
		return err
	}
	if err := storage.SaveShapes(store, game.DefaultShapes()); err != nil {
		return err
	}

	slog.Info("wrote shapes", "dir", dir, "count", len(game.Kinds))
	return nil
}
