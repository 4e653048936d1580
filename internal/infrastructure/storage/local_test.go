package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cllmenate/inventory-management/internal/domain"
	"github.com/cllmenate/inventory-management/pkg/config"
)

func TestLocalStore_GuardarAbrirBorrar(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	key := "exports/2024/01/15/product_20240115_143000.csv"
	require.NoError(t, s.Save(ctx, key, strings.NewReader("id,title\n"), 9))

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, "id,title\n", string(data))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, s.Delete(ctx, key), "borrar dos veces no falla")
}

func TestLocalStore_NoDejaTemporales(t *testing.T) {
	dir := t.TempDir()
	s, err := NewLocalStore(dir)
	require.NoError(t, err)

	require.NoError(t, s.Save(context.Background(), "imports/a.csv", strings.NewReader("x"), 1))

	entries, err := os.ReadDir(filepath.Join(dir, "imports"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.csv", entries[0].Name())
}

func TestLocalStore_RechazaClavesFueraDelDirectorio(t *testing.T) {
	s, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	err = s.Save(context.Background(), "../../etc/passwd", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNew_DriverLocalPorDefecto(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Driver: "local", LocalDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, s)
}

func TestNewS3Store_BucketObligatorio(t *testing.T) {
	_, err := NewS3Store(context.Background(), config.S3Config{Region: "us-east-1"})
	assert.Error(t, err)
}
