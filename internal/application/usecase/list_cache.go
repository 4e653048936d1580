package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/cllmenate/inventory-management/internal/application/dto"
	"github.com/cllmenate/inventory-management/internal/application/ports"
	"github.com/cllmenate/inventory-management/internal/domain/catalog"
)

// optionsTTL vida de las listas de selección; cualquier mutación las invalida antes.
const optionsTTL = 10 * time.Minute

// listCache cachea listas de selección por tipo de entidad bajo "list:<tipo>:".
// Los errores de caché se registran y nunca rompen el caso de uso.
type listCache struct {
	cache ports.Cache
	log   zerolog.Logger
}

func listPrefix(t catalog.EntityType) string {
	return ports.ListKeyPrefix + string(t) + ":"
}

func (c listCache) options(ctx context.Context, t catalog.EntityType, load func() ([]dto.OptionResponse, error)) ([]dto.OptionResponse, error) {
	key := listPrefix(t) + "options"
	if c.cache != nil {
		raw, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.log.Warn().Err(err).Str("key", key).Msg("lectura de caché fallida")
		}
		var cached []dto.OptionResponse
		if ok && json.Unmarshal(raw, &cached) == nil {
			return cached, nil
		}
	}
	opts, err := load()
	if err != nil {
		return nil, err
	}
	if c.cache != nil {
		if raw, err := json.Marshal(opts); err == nil {
			if err := c.cache.Set(ctx, key, raw, optionsTTL); err != nil {
				c.log.Warn().Err(err).Str("key", key).Msg("escritura de caché fallida")
			}
		}
	}
	return opts, nil
}

func (c listCache) invalidate(ctx context.Context, t catalog.EntityType) {
	if c.cache == nil {
		return
	}
	if err := c.cache.DeletePrefix(ctx, listPrefix(t)); err != nil {
		c.log.Warn().Err(err).Str("entity", string(t)).Msg("invalidación de caché fallida")
	}
}
