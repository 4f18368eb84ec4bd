// Package catalog stores parsed recipes so they can be listed, looked up by
// slug and searched by tag. Memory and Bun (sqlite, postgres) backends share
// the Repository contract.
package catalog

import (
	"encoding/hex"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-recipemd/internal/library"
	"github.com/goliatone/go-recipemd/internal/model"
)

// Entry is one stored recipe.
type Entry struct {
	bun.BaseModel `bun:"table:recipes,alias:r"`

	ID              uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	Slug            string        `bun:"slug,notnull,unique" json:"slug"`
	Locale          string        `bun:"locale" json:"locale,omitempty"`
	Title           string        `bun:"title,notnull" json:"title"`
	Path            string        `bun:"path" json:"path,omitempty"`
	SourceURL       string        `bun:"source_url" json:"source_url,omitempty"`
	Draft           bool          `bun:"draft,notnull,default:false" json:"draft"`
	Checksum        string        `bun:"checksum" json:"checksum,omitempty"`
	Tags            []string      `bun:"tags,type:jsonb" json:"tags"`
	IngredientCount int           `bun:"ingredient_count,notnull,default:0" json:"ingredient_count"`
	Recipe          *model.Recipe `bun:"recipe,type:jsonb" json:"recipe"`
	Markdown        string        `bun:"markdown" json:"-"`
	CreatedAt       time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// tagRow indexes entries by normalized tag for Search.
type tagRow struct {
	bun.BaseModel `bun:"table:recipe_tags,alias:rt"`

	RecipeID uuid.UUID `bun:"recipe_id,pk,type:uuid"`
	Tag      string    `bun:"tag,pk"`
}

// NewEntry converts a loaded document into a catalog entry.
func NewEntry(doc *library.Document) *Entry {
	if doc == nil {
		return nil
	}
	entry := &Entry{
		ID:        doc.ID,
		Slug:      doc.Slug,
		Locale:    doc.Locale,
		Title:     doc.Title(),
		Path:      doc.Path,
		SourceURL: doc.FrontMatter.Source,
		Draft:     doc.FrontMatter.Draft,
		Checksum:  hex.EncodeToString(doc.Checksum),
		Tags:      doc.Tags(),
		Recipe:    doc.Recipe,
		Markdown:  string(doc.Body),
	}
	if doc.Recipe != nil {
		entry.IngredientCount = doc.Recipe.IngredientCount()
	}
	if entry.Tags == nil {
		entry.Tags = []string{}
	}
	return entry
}

// HasTag matches tags case-insensitively.
func (e *Entry) HasTag(tag string) bool {
	key := normalizeTag(tag)
	if e == nil || key == "" {
		return false
	}
	return slices.ContainsFunc(e.Tags, func(t string) bool {
		return normalizeTag(t) == key
	})
}

func normalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}

func normalizeSlug(slug string) string {
	return strings.ToLower(strings.TrimSpace(slug))
}

func tagRows(entry *Entry) []tagRow {
	seen := map[string]struct{}{}
	var rows []tagRow
	for _, tag := range entry.Tags {
		key := normalizeTag(tag)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		rows = append(rows, tagRow{RecipeID: entry.ID, Tag: key})
	}
	return rows
}

func cloneEntry(entry *Entry) *Entry {
	if entry == nil {
		return nil
	}
	cloned := *entry
	cloned.Tags = append([]string{}, entry.Tags...)
	return &cloned
}
