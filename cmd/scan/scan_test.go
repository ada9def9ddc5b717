package scan

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eclipse-score/srclinker/internal/linker"
	"github.com/eclipse-score/srclinker/internal/needlinks"
	"github.com/eclipse-score/srclinker/pkg/shared/config"
)

func TestValidateScanArgs(t *testing.T) {
	tests := []struct {
		name    string
		options RunOptionsScan
		args    []string
		wantErr string
	}{
		{name: "No flags", options: RunOptionsScan{}},
		{name: "Root and build dir", options: RunOptionsScan{Root: "ws", BuildDir: "ws/_build"}},
		{name: "Positional argument", args: []string{"ws"}, wantErr: "unexpected arguments"},
		{name: "Build dir is root", options: RunOptionsScan{Root: "ws", BuildDir: "ws"}, wantErr: "must not point"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateScanArgs(&tt.options, tt.args)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.wantErr)
			}
		})
	}
}

func TestPrepareFromEnvironment(t *testing.T) {
	root := t.TempDir()
	tag := config.DefaultTags[0]
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "main.rs"), []byte("fn main() {}\n// "+tag+" TREQ_ID_1\n"), 0o644))

	buildDir := filepath.Join(root, "_build")
	t.Setenv(config.DefaultWorkspaceEnv, root)
	t.Setenv(config.DefaultBuildDirEnv, buildDir)

	cachePath, err := Prepare(config.Default(), "", "", hclog.NewNullLogger())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(buildDir, config.DefaultCacheFileName), cachePath)

	links, err := needlinks.Load(cachePath)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, needlinks.NeedLink{
		File:     "src/main.rs",
		Line:     2,
		Tag:      tag,
		Need:     "TREQ_ID_1",
		FullLine: "// " + tag + " TREQ_ID_1",
	}, links[0])
}

func TestPrepareWithoutWorkspace(t *testing.T) {
	t.Setenv(config.DefaultWorkspaceEnv, "")
	_, err := Prepare(config.Default(), "", t.TempDir(), hclog.NewNullLogger())
	assert.ErrorIs(t, err, linker.ErrWorkspaceRootNotSet)
}
