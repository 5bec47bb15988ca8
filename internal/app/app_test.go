package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapcircle-backend/internal/config"
	"swapcircle-backend/internal/repository/memory"
	"swapcircle-backend/internal/security"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(`
store:
  type: memory
auth:
  provider: jwt
  jwt_secret: 0123456789abcdef0123456789abcdef
storage:
  type: local
  upload_dir: /tmp/swapcircle-images
`))
	require.NoError(t, err)
	return cfg
}

func TestOpenStore_Memory(t *testing.T) {
	store, closeStore, err := OpenStore(memoryConfig(t))
	require.NoError(t, err)
	defer closeStore()
	assert.IsType(t, &memory.Store{}, store)
}

func TestWiring_WithoutExternalChannels(t *testing.T) {
	ctx := context.Background()
	cfg := memoryConfig(t)

	fbApp, err := FirebaseApp(ctx, cfg)
	require.NoError(t, err)
	assert.Nil(t, fbApp)

	verifier, err := Verifier(ctx, cfg, fbApp)
	require.NoError(t, err)
	assert.IsType(t, &security.TokenManager{}, verifier)

	store := memory.NewStore()
	notifier, err := Notifier(ctx, cfg, store, fbApp)
	require.NoError(t, err)

	runner := JobRunner(cfg, store, notifier)
	assert.Equal(t, cfg, runner.Config())
	runner.RunAll()
}
