package ports

import (
	"context"
	"time"
)

// Prefijos de claves de caché compartidos entre casos de uso y worker.
const (
	MetricsKeyPrefix = "metrics:"
	ListKeyPrefix    = "list:"
)

// Cache define el puerto de salida hacia el almacén clave/valor (Redis en producción).
// Los valores son bytes opacos; quien llama decide la serialización.
type Cache interface {
	// Get devuelve (nil, false, nil) si la clave no existe.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix borra todas las claves que empiezan con prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}
