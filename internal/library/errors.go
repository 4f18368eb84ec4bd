package library

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-recipemd/internal/parser"
)

var (
	// ErrPathOutsideBase is returned for absolute paths that cannot be made
	// relative to the loader base path.
	ErrPathOutsideBase = errors.New("library: path outside base directory")
	// ErrSlugUnresolved is returned when neither front matter, title nor file
	// name yield a usable slug.
	ErrSlugUnresolved = errors.New("library: unable to derive recipe slug")
)

const (
	TextCodeFrontMatterInvalid = "RECIPE_FRONTMATTER_INVALID"
	TextCodeSlugUnresolved     = "RECIPE_SLUG_UNRESOLVED"
)

// wrapParseError decorates a parser failure with the file path and the
// absolute source location. offset is where the body starts inside source.
func wrapParseError(path string, source []byte, offset int, err error) error {
	var perr *parser.Error
	if !errors.As(err, &perr) {
		return goerrors.Wrap(err, goerrors.CategoryInternal, fmt.Sprintf("parse recipe %s", path))
	}

	abs := len(source)
	if perr.Span != nil {
		abs = offset + perr.Span.Start
	}
	line, column := parser.Position(string(source), abs)

	meta := map[string]any{
		"path":   path,
		"offset": abs,
		"line":   line,
		"column": column,
	}
	if perr.Span != nil {
		meta["span_start"] = offset + perr.Span.Start
		meta["span_end"] = offset + perr.Span.End
	}

	return goerrors.Wrap(err, goerrors.CategoryValidation, fmt.Sprintf("parse recipe %s:%d:%d", path, line, column)).
		WithTextCode(perr.Code()).
		WithMetadata(meta)
}

func wrapFrontMatterError(path string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, fmt.Sprintf("front matter %s", path)).
		WithTextCode(TextCodeFrontMatterInvalid).
		WithMetadata(map[string]any{"path": path})
}

// Location extracts the line and column recorded on a wrapped parse error.
func Location(err error) (line, column int, ok bool) {
	var gerr *goerrors.Error
	if !errors.As(err, &gerr) || gerr.Metadata == nil {
		return 0, 0, false
	}
	line, lok := gerr.Metadata["line"].(int)
	column, cok := gerr.Metadata["column"].(int)
	return line, column, lok && cok
}
