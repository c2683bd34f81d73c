// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citegraph/pkg/types"
)

// setViper overrides a key for the duration of the test.
func setViper(t *testing.T, key string, value any) {
	t.Helper()
	old := viper.Get(key)
	viper.Set(key, value)
	t.Cleanup(func() { viper.Set(key, old) })
}

func TestBuildConfigDefaults(t *testing.T) {
	cfg, err := buildConfig()
	require.NoError(t, err)
	assert.Equal(t, types.Defaults(), cfg)
}

func TestBuildConfigOverrides(t *testing.T) {
	setViper(t, "data", "corpus")
	setViper(t, "workers", 2)
	setViper(t, "threshold", 90.0)
	setViper(t, "task_timeout", "30s")
	setViper(t, "preprocess", true)
	setViper(t, "db", "graph.db")

	cfg, err := buildConfig()
	require.NoError(t, err)
	assert.Equal(t, "corpus", cfg.CorpusDir)
	assert.Equal(t, 2, cfg.Dispatch.Workers)
	assert.InDelta(t, 90.0, cfg.Match.Threshold, 1e-9)
	assert.Equal(t, 30*time.Second, cfg.Dispatch.TaskTimeout)
	assert.Equal(t, types.ModePreprocessOnly, cfg.Mode)
	assert.Equal(t, "graph.db", cfg.Output.DBPath)
}

func TestBuildConfigRejectsInvalid(t *testing.T) {
	setViper(t, "workers", 0)
	_, err := buildConfig()
	assert.Error(t, err)
}
