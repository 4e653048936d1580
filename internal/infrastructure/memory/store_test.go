package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cllmenate/inventory-management/internal/domain/entity"
	"github.com/cllmenate/inventory-management/internal/domain/repository"
	"github.com/cllmenate/inventory-management/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Run: commit y rollback
// ──────────────────────────────────────────────────────────────────────────────

func brandCount(t *testing.T, s *memory.Store) int {
	t.Helper()
	list, err := s.Repositories().Brands.ListAll(context.Background())
	require.NoError(t, err)
	return len(list)
}

func TestRun_CommitConservaCambios(t *testing.T) {
	s := memory.NewStore()

	err := s.Run(context.Background(), func(repos repository.Repositories) error {
		return repos.Brands.Create(context.Background(), &entity.Brand{Name: "Adidas"})
	})

	require.NoError(t, err)
	assert.Equal(t, 1, brandCount(t, s))
}

func TestRun_ErrorRevierteTodo(t *testing.T) {
	s := memory.NewStore()
	require.NoError(t, s.Repositories().Brands.Create(context.Background(), &entity.Brand{Name: "Puma"}))
	boom := errors.New("boom")

	err := s.Run(context.Background(), func(repos repository.Repositories) error {
		require.NoError(t, repos.Brands.Create(context.Background(), &entity.Brand{Name: "Adidas"}))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, brandCount(t, s))
}

func TestRun_ContextoCanceladoDuranteFnRevierte(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())

	err := s.Run(ctx, func(repos repository.Repositories) error {
		require.NoError(t, repos.Brands.Create(ctx, &entity.Brand{Name: "Adidas"}))
		cancel()
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, brandCount(t, s))
}

func TestRun_ContextoYaCanceladoNoEjecutaFn(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	called := false

	err := s.Run(ctx, func(repository.Repositories) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}
