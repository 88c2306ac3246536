package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/dtroode/recipai/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyPath(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestStore_Roundtrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "state.json")

	s, err := New(path)
	require.NoError(t, err)

	_, err = s.Get(ctx, model.KeyToken)
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Set(ctx, model.KeyToken, []byte("tok")))
	require.NoError(t, s.Set(ctx, model.KeyPantryItems, []byte(`["milk"]`)))

	got, err := s.Get(ctx, model.KeyPantryItems)
	require.NoError(t, err)
	assert.Equal(t, `["milk"]`, string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, s.Delete(ctx, model.SessionKeys...))
	_, err = s.Get(ctx, model.KeyToken)
	require.ErrorIs(t, err, model.ErrNotFound)

	got, err = s.Get(ctx, model.KeyPantryItems)
	require.NoError(t, err)
	assert.Equal(t, `["milk"]`, string(got))
}

func TestStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	s, err := New(path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, model.KeyShoppingCart, []byte(`["sugar"]`)))

	reopened, err := New(path)
	require.NoError(t, err)
	got, err := reopened.Get(ctx, model.KeyShoppingCart)
	require.NoError(t, err)
	assert.Equal(t, `["sugar"]`, string(got))
}

func TestStore_IndependentWriters(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")

	a, err := New(path)
	require.NoError(t, err)
	b, err := New(path)
	require.NoError(t, err)

	require.NoError(t, a.Set(ctx, model.KeyPantryItems, []byte(`["milk"]`)))
	require.NoError(t, b.Set(ctx, model.KeyShoppingCart, []byte(`["sugar"]`)))
	require.NoError(t, a.Set(ctx, model.KeyShoppingCart, []byte(`["salt"]`)))

	pantry, err := b.Get(ctx, model.KeyPantryItems)
	require.NoError(t, err)
	assert.Equal(t, `["milk"]`, string(pantry))

	cart, err := b.Get(ctx, model.KeyShoppingCart)
	require.NoError(t, err)
	assert.Equal(t, `["salt"]`, string(cart))
}

func TestStore_CorruptFileReadsEmpty(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.json")
	require.NoError(t, os.WriteFile(path, []byte("{garbage"), 0o600))

	s, err := New(path)
	require.NoError(t, err)

	_, err = s.Get(ctx, model.KeyToken)
	require.ErrorIs(t, err, model.ErrNotFound)

	require.NoError(t, s.Set(ctx, model.KeyToken, []byte("tok")))
	got, err := s.Get(ctx, model.KeyToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", string(got))
}
