// Package linker runs the two phases of source code linking: scanning a workspace
// into the link cache, and injecting the cached references into a needs collection.
package linker

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/eclipse-score/srclinker/internal/git"
	"github.com/eclipse-score/srclinker/internal/needlinks"
	"github.com/eclipse-score/srclinker/internal/needs"
	"github.com/eclipse-score/srclinker/internal/reconciler"
	"github.com/eclipse-score/srclinker/pkg/shared/config"
	"github.com/eclipse-score/srclinker/pkg/shared/files"
)

var (
	ErrWorkspaceRootNotSet  = errors.New("workspace root is not set")
	ErrWorkspaceRootInvalid = errors.New("workspace root is not a directory")
	ErrBuildDirNotSet       = errors.New("build directory is not set")
)

// ScanFunc produces the references of a source tree, leaving out the files in exclude.
type ScanFunc func(root string, exclude ...string) ([]needlinks.NeedLink, error)

// Options configures a Linker.
type Options struct {
	CacheFileName string
	SkipRescan    bool // reuse an existing cache instead of scanning again
}

// OptionsFromConfig reads the linker options from the source code linker settings.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.Default()
	}
	return Options{
		CacheFileName: cfg.SourceCodeLinker.CacheFileName,
		SkipRescan:    cfg.SourceCodeLinker.SkipRescanning,
	}
}

type Linker struct {
	opts   Options
	scan   ScanFunc
	logger hclog.Logger
}

// New creates a Linker that uses scan for the prepare phase.
func New(opts Options, scan ScanFunc, logger hclog.Logger) *Linker {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if opts.CacheFileName == "" {
		opts.CacheFileName = config.DefaultCacheFileName
	}
	return &Linker{opts: opts, scan: scan, logger: logger}
}

// CacheFilePath returns the location of the link cache inside buildDir.
func CacheFilePath(buildDir, name string) string {
	if name == "" {
		name = config.DefaultCacheFileName
	}
	return filepath.Join(buildDir, name)
}

// CachePath returns the link cache location this linker uses inside buildDir.
func (l *Linker) CachePath(buildDir string) string {
	return CacheFilePath(buildDir, l.opts.CacheFileName)
}

// Prepare scans root and rewrites the link cache in buildDir. With SkipRescan set
// and a cache already present, the existing cache is kept and scanned is false.
func (l *Linker) Prepare(root, buildDir string) (cachePath string, scanned bool, err error) {
	cachePath = l.CachePath(buildDir)

	if l.opts.SkipRescan && files.Exists(cachePath) {
		l.logger.Info("reusing existing source code link cache", "path", cachePath)
		return cachePath, false, nil
	}

	start := time.Now()
	links, err := l.scan(root, cachePath)
	if err != nil {
		return cachePath, false, fmt.Errorf("failed to scan %q: %w", root, err)
	}
	if err := needlinks.Persist(cachePath, links); err != nil {
		return cachePath, false, err
	}

	l.logger.Info("source code link cache written",
		"path", cachePath,
		"references", len(links),
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return cachePath, true, nil
}

// Inject loads the link cache and reconciles it against coll.
func (l *Linker) Inject(cachePath string, coll needs.Collection, rec *reconciler.Reconciler) (reconciler.Result, error) {
	links, err := needlinks.Load(cachePath)
	if err != nil {
		return reconciler.Result{}, err
	}

	res, err := rec.Reconcile(links, coll)
	if err != nil {
		return res, fmt.Errorf("failed to inject source code links: %w", err)
	}

	l.logger.Info("source code links injected",
		"references", len(links),
		"needs_updated", res.Updated,
		"links_added", res.Appended,
		"unresolved", len(res.Warnings),
	)
	return res, nil
}

// ResolveWorkspaceRoot returns flag when set, else the value of envName.
// The result must be an existing directory.
func ResolveWorkspaceRoot(flag, envName string) (string, error) {
	root := strings.TrimSpace(flag)
	if root == "" && envName != "" {
		root = strings.TrimSpace(os.Getenv(envName))
	}
	if root == "" {
		return "", fmt.Errorf("%w: pass --root or set %s", ErrWorkspaceRootNotSet, envName)
	}

	expanded, err := files.ExpandPath(root)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkspaceRootInvalid, err)
	}
	if err := files.ValidateDir(expanded); err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkspaceRootInvalid, err)
	}

	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrWorkspaceRootInvalid, err)
	}
	return abs, nil
}

// ResolveBuildDir returns flag when set, else the value of envName.
func ResolveBuildDir(flag, envName string) (string, error) {
	dir := strings.TrimSpace(flag)
	if dir == "" && envName != "" {
		dir = strings.TrimSpace(os.Getenv(envName))
	}
	if dir == "" {
		return "", fmt.Errorf("%w: pass --build-dir or set %s", ErrBuildDirNotSet, envName)
	}
	return files.ExpandPath(dir)
}

// RelativeRoot returns the folder that reported file paths are relative to.
func RelativeRoot(relativeTo, workspaceRoot string) (string, error) {
	switch relativeTo {
	case "", config.RelativeToWorkspace:
		return workspaceRoot, nil
	case config.RelativeToGit:
		return git.FindRepositoryRoot(workspaceRoot)
	default:
		return "", fmt.Errorf("unsupported relative_to value %q", relativeTo)
	}
}
