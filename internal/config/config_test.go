package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envFrom(nil))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendFirestore, cfg.StoreBackend)
	assert.Equal(t, "sulam-project-map", cfg.FirestoreProjectID)
	assert.Equal(t, 1530.0, cfg.Calibration.Width)
	assert.Equal(t, 1050.0, cfg.Calibration.Height)
	assert.Equal(t, 2.9817734396960933, cfg.Calibration.TopLeft.Lat)
	assert.Equal(t, 150, cfg.OpenRouter.MaxTokens)
	assert.Equal(t, 30*time.Second, cfg.OpenRouter.Timeout)
	assert.Equal(t, 10*time.Second, cfg.KnowledgeTimeout)
	assert.Equal(t, 800, cfg.SummaryMaxChars)
	assert.Equal(t, "KUL City Walk AI Assistant", cfg.OpenRouter.Title)
	assert.Empty(t, cfg.AIModels)
	assert.False(t, cfg.AuthEnabled())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envFrom(map[string]string{
		"STORE_BACKEND":       "SQLite",
		"AI_PROVIDERS":        "a/b:free, gemini:gemini-2.5-flash",
		"AI_PROVIDER_TIMEOUT": "5s",
		"SUPABASE_URL":        "https://abc.supabase.co",
		"SUPABASE_ANON_KEY":   "anon",
	}))
	require.NoError(t, err)

	assert.Equal(t, BackendSQLite, cfg.StoreBackend)
	assert.Equal(t, []string{"a/b:free", "gemini:gemini-2.5-flash"}, cfg.AIModels)
	assert.Equal(t, 5*time.Second, cfg.OpenRouter.Timeout)
	assert.True(t, cfg.AuthEnabled())
}

func TestFromEnv_RejectsDegenerateCalibration(t *testing.T) {
	_, err := FromEnv(envFrom(map[string]string{
		"MAP_TOP_LEFT_LAT":     "3.0",
		"MAP_BOTTOM_RIGHT_LAT": "3.0",
	}))
	assert.Error(t, err)
}

func TestFromEnv_RejectsBadValues(t *testing.T) {
	tests := map[string]map[string]string{
		"数値以外の幅":  {"MAP_IMAGE_WIDTH": "wide"},
		"不正な期間":   {"SESSION_IDLE_TTL": "forever"},
		"未知の保存先":  {"STORE_BACKEND": "mongo"},
		"トークン数ゼロ": {"AI_MAX_TOKENS": "0"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := FromEnv(envFrom(env))
			assert.Error(t, err)
		})
	}
}
