package ports

import (
	"context"
	"io"
)

// ArtifactStorage guarda archivos generados (exportaciones) y cargas en espera (importaciones).
// Las claves usan "/" como separador independientemente del backend.
type ArtifactStorage interface {
	Save(ctx context.Context, key string, r io.Reader, size int64) error
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
