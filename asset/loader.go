package asset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Loader brings one product into memory. Implementations are called from
// worker goroutines and must honor ctx.
type Loader interface {
	Load(ctx context.Context, info Info) error
}

type LoaderFunc func(ctx context.Context, info Info) error

func (f LoaderFunc) Load(ctx context.Context, info Info) error { return f(ctx, info) }

// FileLoader reads products from a directory tree.
type FileLoader struct {
	Root string
}

func (l FileLoader) Load(ctx context.Context, info Info) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := os.ReadFile(filepath.Join(l.Root, filepath.FromSlash(info.RelativePath)))
	if err != nil {
		return fmt.Errorf("load %s: %w", info.RelativePath, err)
	}
	if len(data) == 0 {
		return fmt.Errorf("load %s: empty product", info.RelativePath)
	}
	return nil
}
