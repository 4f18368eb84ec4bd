package library

import (
	"bytes"
	"fmt"
	"maps"

	"github.com/adrg/frontmatter"
)

// FrontMatter holds the metadata block that may precede a recipe.
type FrontMatter struct {
	Title  string
	Slug   string
	Source string
	Locale string
	Draft  bool
	Tags   []string
	Custom map[string]any
	Raw    map[string]any
}

// ParseFrontMatter extracts metadata and returns the Markdown body without
// delimiters. The body is always a suffix of source, so the front matter
// length is len(source) - len(body).
func ParseFrontMatter(source []byte) (FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

type frontMatterEnvelope struct {
	Title  string         `yaml:"title"`
	Slug   string         `yaml:"slug"`
	Source string         `yaml:"source"`
	Locale string         `yaml:"locale"`
	Draft  bool           `yaml:"draft"`
	Tags   []string       `yaml:"tags"`
	Custom map[string]any `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) FrontMatter {
	custom := maps.Clone(env.Custom)
	if custom == nil {
		custom = map[string]any{}
	}

	raw := make(map[string]any, len(custom)+6)
	maps.Copy(raw, custom)

	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}
	if env.Source != "" {
		raw["source"] = env.Source
	}
	if env.Locale != "" {
		raw["locale"] = env.Locale
	}
	if len(env.Tags) > 0 {
		raw["tags"] = append([]string(nil), env.Tags...)
	}
	raw["draft"] = env.Draft

	return FrontMatter{
		Title:  env.Title,
		Slug:   env.Slug,
		Source: env.Source,
		Locale: env.Locale,
		Draft:  env.Draft,
		Tags:   append([]string(nil), env.Tags...),
		Custom: custom,
		Raw:    raw,
	}
}
