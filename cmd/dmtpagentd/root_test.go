package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ositech/dmtp-agent/internal/property"
)

func TestVersionCmdPrintsVersion(t *testing.T) {
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), version)
}

func TestValidateConfigReportsPropertyCount(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("property_file: \"\"\n"), 0o644))

	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"--config", cfgPath, "validate-config"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), fmt.Sprintf("%d property definitions loaded", len(property.DefaultDefinitions())))
}

func TestShowPropertiesListsEntries(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("property_file: \"\"\n"), 0o644))

	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"--config", cfgPath, "show-properties"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "ibox.mid")
}
