package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFuncOptionsDefaults(t *testing.T) {
	o := FuncOptions{}.New()

	assert.Equal(t, cwd, o.Dir)
	assert.False(t, o.Recursive)
	assert.Equal(t, defaultSuffix, o.Suffix)
	assert.Equal(t, defaultTagKey, o.TagKey)
	assert.False(t, o.DryRun)
	assert.Equal(t, os.Stdout, o.Output)
}

func TestFuncOptionsOverride(t *testing.T) {
	var buf bytes.Buffer
	o := FuncOptions{
		Dir("a/b/../c/"),
		Recursive(true),
		Suffix("_new.go"),
		TagKey("new"),
		DryRun(true),
		Output(&buf),
	}.New()

	assert.Equal(t, filepath.Clean("a/c"), o.Dir)
	assert.True(t, o.Recursive)
	assert.Equal(t, "_new.go", o.Suffix)
	assert.Equal(t, "new", o.TagKey)
	assert.True(t, o.DryRun)
	assert.Same(t, &buf, o.Output)
}

func TestFuncOptionsEmptyKeepsDefaults(t *testing.T) {
	o := FuncOptions{Suffix(""), TagKey(""), Output(nil)}.New()

	assert.Equal(t, defaultSuffix, o.Suffix)
	assert.Equal(t, defaultTagKey, o.TagKey)
	assert.Equal(t, os.Stdout, o.Output)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CTORGEN_SUFFIX", "_env.go")
	t.Setenv("CTORGEN_DRY_RUN", "true")

	v, err := loadConfig(nil)
	require.NoError(t, err)

	o := funcOptionsFromConfig(v).New()
	assert.Equal(t, "_env.go", o.Suffix)
	assert.True(t, o.DryRun)
	assert.Equal(t, defaultTagKey, o.TagKey)
}

func TestLoadConfigFlagsWin(t *testing.T) {
	t.Setenv("CTORGEN_TAG", "env")

	cmd := newRootCmd()
	require.NoError(t, cmd.Flags().Parse([]string{"--tag", "flag", "--dry-run", "-r"}))

	v, err := loadConfig(cmd.Flags())
	require.NoError(t, err)

	o := funcOptionsFromConfig(v).New()
	assert.Equal(t, "flag", o.TagKey)
	assert.True(t, o.DryRun)
	assert.True(t, o.Recursive)
}

func TestRootCmdDryRun(t *testing.T) {
	dir := writeFixture(t, map[string]string{"movies.go": moviesSrc})
	t.Cleanup(setLogger(logger))

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--dir", dir, "--dry-run"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "func NewMovie(title string) *Movie {")
	assert.NoFileExists(t, filepath.Join(dir, "movies_ctor_gen.go"))
}

func TestRootCmdRejectsArgs(t *testing.T) {
	cmd := newRootCmd()
	cmd.SetArgs([]string{"extra"})
	assert.Error(t, cmd.Execute())
}
