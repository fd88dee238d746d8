package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfig_EnvOverridesNestedKeys(t *testing.T) {
	t.Setenv("MONDASH_MONDAY_API_TOKEN", "env-token")
	t.Setenv("MONDASH_ANTHROPIC_MODEL", "env-model")

	viper.Reset()
	initConfig()

	// Nested keys must be reachable through the underscore env names
	// that 'config show' advertises.
	assert.Equal(t, "env-token", viper.GetString("monday.api_token"))
	assert.Equal(t, "env-model", viper.GetString("anthropic.model"))
}

func TestInitConfig_Defaults(t *testing.T) {
	viper.Reset()
	initConfig()

	assert.Equal(t, 8080, viper.GetInt("port"))
	assert.Contains(t, viper.GetString("db_path"), "mondash.db")
	assert.Equal(t, "https://api.monday.com/v2", viper.GetString("monday.api_url"))
}
