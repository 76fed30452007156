package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olablt/poemap/tiles"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "poems.json", cfg.Data.Source)
	assert.Equal(t, 13.0, cfg.Map.LabelZoom)
	assert.Equal(t, 1500*time.Millisecond, cfg.Map.FlyDuration)
	assert.Equal(t, 1000.0, cfg.Map.NarrowWidth)
	assert.Equal(t, tiles.CartoLightURL, cfg.Tiles.LightURL)
	assert.Equal(t, tiles.CartoDarkURL, cfg.Tiles.DarkURL)
	assert.Equal(t, []string{"a", "b", "c", "d"}, cfg.Tiles.Subdomains)
	assert.Equal(t, 4, cfg.Tiles.Workers)
	assert.Equal(t, tiles.CartoAttribution, cfg.Tiles.Attribution)
	assert.Equal(t, 30*time.Second, cfg.Tiles.RetryAfter)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("POEMAP_DATA_SOURCE", "https://example.com/poems.json")
	t.Setenv("POEMAP_MAP_LABEL_ZOOM", "14")
	t.Setenv("POEMAP_MAP_FLY_DURATION", "2s")
	t.Setenv("POEMAP_LOG_FORMAT", "json")

	cfg, err := load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/poems.json", cfg.Data.Source)
	assert.Equal(t, 14.0, cfg.Map.LabelZoom)
	assert.Equal(t, 2*time.Second, cfg.Map.FlyDuration)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "data:\n  source: ./data/poems.geojson\nwindow:\n  width: 900\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "./data/poems.geojson", cfg.Data.Source)
	assert.Equal(t, 900, cfg.Window.Width)
	assert.Equal(t, 800, cfg.Window.Height)
}

func TestLoadRejectsInvalid(t *testing.T) {
	t.Setenv("POEMAP_TILES_WORKERS", "0")
	t.Setenv("POEMAP_MAP_MIN_ZOOM", "12")
	t.Setenv("POEMAP_MAP_MAX_ZOOM", "4")

	_, err := load(viper.New())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tiles.workers must be positive")
	assert.Contains(t, err.Error(), "map zoom range 12..4 is invalid")
}

func TestValidate(t *testing.T) {
	cfg, err := load(viper.New())
	require.NoError(t, err)

	cfg.Data.Source = ""
	cfg.Window.Width = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.source is required")
	assert.Contains(t, err.Error(), "window size must be positive")
}
