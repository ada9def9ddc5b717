package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExecuteExitCodes(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"version"})
	assert.Equal(t, 0, Execute())
	assert.Contains(t, out.String(), "Core Version")

	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.yml"), "version"})
	assert.Equal(t, 1, Execute())
	cfgFile = ""
}
