package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8099", cfg.Listen)
	assert.Equal(t, "./media", cfg.MediaRoot)
	assert.Equal(t, filepath.Join("./media", "exports"), cfg.ExportDir)
	assert.Equal(t, 30*time.Second, cfg.RenderTimeout)
}

func TestLoadPartialConfig(t *testing.T) {
	path := writeConfig(t, `
listen: ":9000"
media_root: /srv/media
smtp:
  host: mail.example.com
  port: 465
  from: reports@example.com
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Listen)
	assert.Equal(t, "/srv/media", cfg.MediaRoot)
	assert.Equal(t, "mail.example.com", cfg.SMTP.Host)

	// Unset fields fall back to defaults.
	assert.Equal(t, "./data", cfg.DataDir)
	assert.Equal(t, filepath.Join("/srv/media", "exports"), cfg.ExportDir)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "listen: [not: valid")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDerivedDirs(t *testing.T) {
	cfg := &Config{MediaRoot: "/srv/media"}

	assert.Equal(t, filepath.Join("/srv/media", "pdf"), cfg.PDFDir())
	assert.Equal(t, filepath.Join("/srv/media", "images"), cfg.ImageDir())
}
