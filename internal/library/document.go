package library

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-recipemd/internal/identity"
	"github.com/goliatone/go-recipemd/internal/model"
	"github.com/goliatone/go-recipemd/internal/parser"
)

// Document is a parsed recipe file.
type Document struct {
	Path        string
	Slug        string
	ID          uuid.UUID
	Locale      string
	FrontMatter FrontMatter
	// Source is the whole file, Body the Markdown after the front matter.
	Source     []byte
	Body       []byte
	BodyOffset int
	Checksum   []byte
	ModTime    time.Time
	Recipe     *model.Recipe
}

// Title prefers the recipe heading over the front matter title.
func (d *Document) Title() string {
	if d == nil {
		return ""
	}
	if d.Recipe != nil && d.Recipe.Title != "" {
		return d.Recipe.Title
	}
	return d.FrontMatter.Title
}

// Tags merges recipe tags with front matter tags, keeping first-seen order.
func (d *Document) Tags() []string {
	if d == nil {
		return nil
	}
	var out []string
	add := func(tag string) {
		tag = strings.TrimSpace(tag)
		if tag != "" && !slices.Contains(out, tag) {
			out = append(out, tag)
		}
	}
	if d.Recipe != nil {
		for _, tag := range d.Recipe.Tags {
			add(tag)
		}
	}
	for _, tag := range d.FrontMatter.Tags {
		add(tag)
	}
	return out
}

// BuildDocument splits front matter, parses the body and derives the slug
// and identifier. locale is used unless the front matter names one.
func BuildDocument(path, locale string, source []byte, modified time.Time, opts ...parser.Option) (*Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, wrapFrontMatterError(path, err)
	}
	offset := len(source) - len(body)

	recipe, err := parser.ParseBytes(body, opts...)
	if err != nil {
		return nil, wrapParseError(path, source, offset, err)
	}

	if fm.Locale != "" {
		locale = fm.Locale
	}

	doc := &Document{
		Path:        path,
		Locale:      locale,
		FrontMatter: fm,
		Source:      source,
		Body:        body,
		BodyOffset:  offset,
		ModTime:     modified,
		Recipe:      recipe,
	}

	doc.Slug, err = resolveSlug(path, fm.Slug, recipe.Title)
	if err != nil {
		return nil, err
	}
	doc.ID = identity.LocaleRecipeUUID(locale, doc.Slug)
	return doc, nil
}

func resolveSlug(path string, candidates ...string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	for _, value := range append(candidates, base) {
		if strings.TrimSpace(value) == "" {
			continue
		}
		normalized, err := slug.Normalize(value)
		if err == nil && normalized != "" {
			return normalized, nil
		}
	}
	return "", goerrors.Wrap(ErrSlugUnresolved, goerrors.CategoryValidation, fmt.Sprintf("slug for %s", path)).
		WithTextCode(TextCodeSlugUnresolved)
}
