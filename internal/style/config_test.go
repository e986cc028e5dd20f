package style

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"./src/**/*.{js,jsx,ts,tsx}", "./public/index.html"}, cfg.Purge)
	assert.Equal(t, DarkModeOff, cfg.DarkMode)
	assert.Empty(t, cfg.Theme.Extend)
	assert.Empty(t, cfg.Plugins)

	assert.Equal(t, []string{"active"}, cfg.VariantsFor("backgroundColor"))
	assert.Equal(t, []string{"disabled"}, cfg.VariantsFor("opacity"))
	assert.Nil(t, cfg.VariantsFor("textColor"))

	assert.True(t, cfg.VariantEnabled("backgroundColor", "active"))
	assert.True(t, cfg.VariantEnabled("opacity", "disabled"))
	assert.False(t, cfg.VariantEnabled("opacity", "active"))
}

func TestDarkModeYAML(t *testing.T) {
	tests := []struct {
		in      string
		want    DarkMode
		wantErr bool
	}{
		{"dark_mode: false", DarkModeOff, false},
		{"dark_mode: media", DarkModeMedia, false},
		{"dark_mode: CLASS", DarkModeClass, false},
		{"dark_mode: true", "", true},
		{"dark_mode: sometimes", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.in))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.DarkMode)
		})
	}

	t.Run("off marshals as false", func(t *testing.T) {
		out, err := yaml.Marshal(struct {
			DarkMode DarkMode `yaml:"dark_mode"`
		}{DarkModeOff})
		require.NoError(t, err)
		assert.Equal(t, "dark_mode: false\n", string(out))
	})
}

func TestLoad(t *testing.T) {
	t.Run("missing file falls back to default", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "style.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "style.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
purge: ["./app/**/*.vue"]
dark_mode: class
variants:
  extend:
    opacity: [disabled, group-hover]
`), 0600))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"./app/**/*.vue"}, cfg.Purge)
		assert.Equal(t, DarkModeClass, cfg.DarkMode)
		assert.True(t, cfg.VariantEnabled("opacity", "group-hover"))
	})

	t.Run("empty pattern rejected", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "style.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`purge: ["  "]`), 0600))
		_, err := Load(path)
		assert.ErrorContains(t, err, "empty pattern")
	})
}
