package library

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/goliatone/go-recipemd/internal/logging"
	"github.com/goliatone/go-recipemd/internal/parser"
	"github.com/goliatone/go-recipemd/pkg/interfaces"
)

// Config configures how recipe files are discovered within a base directory.
type Config struct {
	// BasePath is the root directory where recipes live.
	BasePath string
	// DefaultLocale is used when no locale can be inferred from the path or front matter.
	DefaultLocale string
	// Locales enumerates known locale directories (e.g. ["en", "es"]).
	Locales []string
	// Pattern limits discovered files (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
	// ContinueOnError collects per-file failures instead of aborting.
	ContinueOnError bool
	// Extensions enables goldmark extensions while parsing bodies.
	Extensions []string
}

// LoadParams provide call-specific overrides.
type LoadParams struct {
	Pattern         string
	Recursive       *bool
	ContinueOnError *bool
}

// Failure records a file that could not be loaded.
type Failure struct {
	Path string
	Err  error
}

// LoadResult is the outcome of a directory scan, sorted by path.
type LoadResult struct {
	Documents []*Document
	Failures  []Failure
}

// Loader turns filesystem paths into parsed recipe documents. It keeps no
// per-call state and is safe for concurrent use.
type Loader struct {
	fs              fs.FS
	basePath        string
	defaultLocale   string
	locales         []string
	pattern         string
	recursive       bool
	continueOnError bool
	parseOptions    []parser.Option
	logger          interfaces.Logger
	parseLogger     interfaces.Logger
}

// NewLoader constructs a Loader over filesystem. A nil logger disables logging.
func NewLoader(filesystem fs.FS, cfg Config, logger interfaces.Logger) *Loader {
	pattern := cfg.Pattern
	if strings.TrimSpace(pattern) == "" {
		pattern = "*.md"
	}
	if logger == nil {
		logger = logging.NoOp()
	}

	var parseOptions []parser.Option
	if len(cfg.Extensions) > 0 {
		parseOptions = append(parseOptions, parser.WithExtensions(cfg.Extensions...))
	}

	return &Loader{
		fs:              filesystem,
		basePath:        filepath.Clean(cfg.BasePath),
		defaultLocale:   cfg.DefaultLocale,
		locales:         append([]string(nil), cfg.Locales...),
		pattern:         pattern,
		recursive:       cfg.Recursive,
		continueOnError: cfg.ContinueOnError,
		parseOptions:    parseOptions,
		logger:          logger,
		parseLogger:     logger,
	}
}

// WithParseLogger returns a copy of the loader that reports parse outcomes
// to logger instead of the loader logger.
func (l *Loader) WithParseLogger(logger interfaces.Logger) *Loader {
	clone := *l
	if logger != nil {
		clone.parseLogger = logger
	}
	return &clone
}

// LoadFile reads and parses a single recipe.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := l.makeRelative(path)
	if err != nil {
		return nil, err
	}
	rel = filepath.ToSlash(rel)

	data, err := fs.ReadFile(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("recipe loader read %s: %w", rel, err)
	}

	info, err := fs.Stat(l.fs, rel)
	if err != nil {
		return nil, fmt.Errorf("recipe loader stat %s: %w", rel, err)
	}

	logger := logging.WithRecipeContext(l.parseLogger, rel, "", "parse")

	doc, err := BuildDocument(rel, l.detectLocale(rel), data, info.ModTime(), l.parseOptions...)
	if err != nil {
		logger.Warn("recipe parse failed", "error", err)
		return nil, err
	}
	sum := sha256.Sum256(data)
	doc.Checksum = sum[:]

	logger.Debug("recipe loaded", "slug", doc.Slug, "ingredients", doc.Recipe.IngredientCount())
	return doc, nil
}

// LoadDirectory discovers recipe files under dir and parses each one.
func (l *Loader) LoadDirectory(ctx context.Context, dir string, opts LoadParams) (*LoadResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	root, err := l.makeRelative(dir)
	if err != nil {
		return nil, err
	}
	root = filepath.ToSlash(filepath.Clean(root))

	continueOnError := l.continueOnError
	if opts.ContinueOnError != nil {
		continueOnError = *opts.ContinueOnError
	}

	result := &LoadResult{}

	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			if !l.shouldRecurse(root, path, opts.Recursive) {
				return fs.SkipDir
			}
			return nil
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := filepath.ToSlash(path)
		if !l.matchesPattern(rel, opts.Pattern) {
			return nil
		}

		doc, err := l.LoadFile(ctx, rel)
		if err != nil {
			if !continueOnError || ctx.Err() != nil {
				return err
			}
			result.Failures = append(result.Failures, Failure{Path: rel, Err: err})
			return nil
		}
		result.Documents = append(result.Documents, doc)
		return nil
	})

	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(result.Documents, func(i, j int) bool {
		return result.Documents[i].Path < result.Documents[j].Path
	})
	sort.Slice(result.Failures, func(i, j int) bool {
		return result.Failures[i].Path < result.Failures[j].Path
	})

	l.logger.Info("recipe directory loaded",
		"dir", root,
		"documents", len(result.Documents),
		"failures", len(result.Failures),
	)
	return result, nil
}

func (l *Loader) shouldRecurse(root, current string, override *bool) bool {
	recursive := l.recursive
	if override != nil {
		recursive = *override
	}
	if recursive {
		return true
	}
	return filepath.Clean(root) == filepath.Clean(current)
}

func (l *Loader) matchesPattern(path string, override string) bool {
	pattern := override
	if strings.TrimSpace(pattern) == "" {
		pattern = l.pattern
	}
	pattern = filepath.ToSlash(pattern)
	if strings.Contains(pattern, "**") {
		pattern = strings.ReplaceAll(pattern, "**/", "")
	}
	target := filepath.Base(path)
	if strings.Contains(pattern, "/") {
		target = path
	}
	match, err := filepath.Match(pattern, target)
	if err != nil {
		return false
	}
	return match
}

// ValidPattern reports whether pattern is an acceptable discovery glob.
func ValidPattern(pattern string) bool {
	pattern = strings.ReplaceAll(filepath.ToSlash(pattern), "**/", "")
	_, err := filepath.Match(pattern, "")
	return err == nil
}

func (l *Loader) detectLocale(path string) string {
	first, _, _ := strings.Cut(filepath.ToSlash(path), "/")
	for _, locale := range l.locales {
		if first == locale {
			return locale
		}
	}
	return l.defaultLocale
}

func (l *Loader) makeRelative(path string) (string, error) {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		return clean, nil
	}
	if l.basePath == "" || l.basePath == "." {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideBase, path)
	}
	rel, err := filepath.Rel(l.basePath, clean)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %s", ErrPathOutsideBase, path)
	}
	return rel, nil
}
