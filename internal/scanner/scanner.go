package scanner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/hashicorp/go-hclog"
	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/eclipse-score/srclinker/internal/needlinks"
	"github.com/eclipse-score/srclinker/pkg/shared/config"
	"github.com/eclipse-score/srclinker/pkg/shared/files"
)

// Options controls which files are read and which markers are recognised.
type Options struct {
	Tags                []string // markers that start a requirement reference
	PrunedDirPrefixes   []string // directory name prefixes that are never descended into
	SkippedFilePrefixes []string // file name prefixes that are never opened
	SkippedSuffixes     []string // file extensions that are never opened
	RelativeTo          string   // root that reported paths are relative to; defaults to the scan root
}

// OptionsFromConfig builds scanner options from the source code linker settings.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		cfg = config.Default()
	}
	scl := cfg.SourceCodeLinker
	return Options{
		Tags:                scl.Tags,
		PrunedDirPrefixes:   scl.PrunedDirPrefixes,
		SkippedFilePrefixes: scl.SkippedFilePrefixes,
		SkippedSuffixes:     scl.SkippedSuffixes,
	}
}

// Scanner collects requirement references from a source tree.
type Scanner struct {
	opts   Options
	logger hclog.Logger
}

// New creates a new Scanner instance with the provided options.
func New(opts Options, logger hclog.Logger) *Scanner {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Scanner{
		opts:   opts,
		logger: logger,
	}
}

// Scan walks root and returns every requirement reference found, in walk order,
// then line order, then tag and identifier order within a line. Files listed in
// exclude are never read; the link cache passes itself here when it lives under root.
func (s *Scanner) Scan(root string, exclude ...string) ([]needlinks.NeedLink, error) {
	start := time.Now()

	if err := files.ValidateDir(root); err != nil {
		return nil, fmt.Errorf("invalid scan root: %w", err)
	}
	excluded := absPaths(exclude)

	relRoot := s.opts.RelativeTo
	if relRoot == "" {
		relRoot = root
	}

	links := []needlinks.NeedLink{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			s.logger.Debug("skipping unreadable entry", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && hasAnyPrefix(d.Name(), s.opts.PrunedDirPrefixes) {
				return fs.SkipDir
			}
			return nil
		}

		if s.shouldSkipFile(path, d) {
			return nil
		}
		if len(excluded) > 0 {
			if abs, err := filepath.Abs(path); err == nil && excluded[abs] {
				s.logger.Debug("skipping excluded file", "path", path)
				return nil
			}
		}

		rel, err := files.RelativeSlashPath(relRoot, path)
		if err != nil {
			s.logger.Debug("skipping file outside of the relative root", "path", path, "error", err)
			return nil
		}

		found, err := s.scanFile(path, rel)
		if err != nil {
			s.logger.Debug("skipping unreadable file", "path", path, "error", err)
			return nil
		}
		links = append(links, found...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", root, err)
	}

	s.logger.Debug("found need references", "count", len(links), "elapsed", time.Since(start).Round(time.Millisecond))
	return links, nil
}

func absPaths(paths []string) map[string]bool {
	set := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			set[abs] = true
		}
	}
	return set
}

// shouldSkipFile reports whether a non-directory entry must not be opened.
func (s *Scanner) shouldSkipFile(path string, d fs.DirEntry) bool {
	name := d.Name()
	if hasAnyPrefix(name, s.opts.SkippedFilePrefixes) {
		return true
	}
	ext := filepath.Ext(name)
	for _, suffix := range s.opts.SkippedSuffixes {
		if ext == suffix {
			return true
		}
	}
	if d.Type()&fs.ModeSymlink != 0 {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			return true
		}
	}
	return !d.Type().IsRegular() && d.Type()&fs.ModeSymlink == 0
}

// scanFile returns the references of one file. Any read error discards the whole file.
func (s *Scanner) scanFile(path, rel string) ([]needlinks.NeedLink, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := bufio.NewReader(transform.NewReader(f, xunicode.UTF8.NewDecoder()))

	var links []needlinks.NeedLink
	for lineNum := 1; ; lineNum++ {
		line, err := reader.ReadString('\n')
		if line != "" {
			links = append(links, s.scanLine(rel, lineNum, line)...)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}
	return links, nil
}

func (s *Scanner) scanLine(rel string, lineNum int, line string) []needlinks.NeedLink {
	var links []needlinks.NeedLink
	for _, tag := range s.opts.Tags {
		if !strings.Contains(line, tag) {
			continue
		}
		fullLine := strings.TrimSpace(line)
		for _, req := range ExtractRequirements(line, tag) {
			links = append(links, needlinks.NeedLink{
				File:     rel,
				Line:     lineNum,
				Tag:      tag,
				Need:     req,
				FullLine: fullLine,
			})
		}
	}
	return links
}

// ExtractRequirements returns the identifiers following the first occurrence of tag in line,
// split on commas and whitespace.
func ExtractRequirements(line, tag string) []string {
	idx := strings.Index(line, tag)
	if idx == -1 {
		return nil
	}

	afterTag := strings.TrimSpace(line[idx+len(tag):])
	return strings.FieldsFunc(afterTag, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if prefix != "" && strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
