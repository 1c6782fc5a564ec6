package configs_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avatarctic/content-board/configs"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")

	cfg, err := configs.Load()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 1, cfg.Board.MoveRetryAttempts)
	require.Equal(t, 5*time.Minute, cfg.Board.StageCacheTTL)
	require.Equal(t, "/metrics", cfg.Metrics.Path)
	require.Equal(t, "migrations", cfg.Database.MigrationsPath)
	require.Contains(t, cfg.Database.DSN, "dbname=content_board")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s")
	t.Setenv("BOARD_MOVE_RETRY_ATTEMPTS", "3")
	t.Setenv("BOARD_STAGE_CACHE_TTL", "30s")
	t.Setenv("BOARD_MATRIX_FILE", "/etc/board/matrix.yaml")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, ,https://b.example")
	t.Setenv("REDIS_ENABLED", "false")

	cfg, err := configs.Load()
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Board.MoveRetryAttempts)
	require.Equal(t, 30*time.Second, cfg.Board.StageCacheTTL)
	require.Equal(t, "/etc/board/matrix.yaml", cfg.Board.MatrixFile)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
	require.False(t, cfg.Redis.Enabled)
}

func TestLoad_Rejects(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := configs.Load()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s")
	t.Setenv("BOARD_MOVE_RETRY_ATTEMPTS", "0")
	_, err = configs.Load()
	require.Error(t, err)
}
