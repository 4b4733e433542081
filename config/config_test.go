package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.GetBool("maintain-arc-consistency"))
	assert.Equal(t, 0, cfg.GetInt("nodes-budget"))
	assert.Equal(t, "./data/words.txt", cfg.GetString("default-words-file"))
}

func TestLoadFlags(t *testing.T) {
	cfg := &Config{}
	err := cfg.Load([]string{
		"--debug", "--nodes-budget=500", "--maintain-arc-consistency=false",
		"load s.txt; solve",
	})
	require.NoError(t, err)
	assert.True(t, cfg.GetBool("debug"))
	assert.Equal(t, 500, cfg.GetInt("nodes-budget"))
	assert.False(t, cfg.GetBool("maintain-arc-consistency"))
	assert.Equal(t, []string{"load s.txt; solve"}, cfg.Args())
}

func TestSetOverrides(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Set("nodes-budget", 42)
	assert.Equal(t, 42, cfg.GetInt("nodes-budget"))
}

func TestAdjustRelativePaths(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Load([]string{"--default-words-file=data/words.txt"}))
	cfg.AdjustRelativePaths("/opt/amaranta")
	assert.Equal(t, "/opt/amaranta/data/words.txt", cfg.GetString("default-words-file"))

	require.NoError(t, cfg.Load([]string{"--default-words-file=/abs/words.txt"}))
	cfg.AdjustRelativePaths("/opt/amaranta")
	assert.Equal(t, "/abs/words.txt", cfg.GetString("default-words-file"))
}
