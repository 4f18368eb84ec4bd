// Package parser turns a RecipeMD document into a model.Recipe. It pulls
// nodes from an ast.Builder and walks them through the title, description
// and ingredient sections, failing on the first structural problem.
package parser

import (
	"github.com/goliatone/go-recipemd/internal/ast"
	"github.com/goliatone/go-recipemd/internal/markup"
	"github.com/goliatone/go-recipemd/internal/model"
)

// Options tunes the markup engine. The zero value parses strict CommonMark.
type Options struct {
	Extensions []string
}

// Option mutates Options.
type Option func(*Options)

// WithExtensions enables goldmark extensions by name.
func WithExtensions(names ...string) Option {
	return func(o *Options) {
		o.Extensions = append(o.Extensions, names...)
	}
}

// Parser holds the state of a single parse. It is not reusable.
type Parser struct {
	src   string
	nodes *ast.Builder
}

// New prepares a parser for src.
func New(src string, opts ...Option) *Parser {
	var options Options
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}
	stream := markup.NewStream([]byte(src), markup.Options{Extensions: options.Extensions})
	return &Parser{src: src, nodes: ast.NewBuilder(stream)}
}

// Parse parses src. On failure the returned error is a *Error.
func Parse(src string, opts ...Option) (*model.Recipe, error) {
	recipe, err := New(src, opts...).Recipe()
	if err != nil {
		return nil, err
	}
	return recipe, nil
}

// ParseBytes is Parse for byte slices.
func ParseBytes(src []byte, opts ...Option) (*model.Recipe, error) {
	return Parse(string(src), opts...)
}

// Recipe runs the parse.
func (p *Parser) Recipe() (*model.Recipe, error) {
	recipe, perr := p.recipe()
	if perr != nil {
		return nil, perr
	}
	return recipe, nil
}

func (p *Parser) recipe() (*model.Recipe, *Error) {
	title, err := p.parseTitle()
	if err != nil {
		return nil, err
	}
	head, err := p.parseDescriptionTagsYields()
	if err != nil {
		return nil, err
	}
	groups, divider, err := p.parseIngredients()
	if err != nil {
		return nil, err
	}

	recipe := &model.Recipe{
		Title:            title,
		Description:      head.description,
		Tags:             head.tags,
		Yields:           head.yields,
		IngredientGroups: groups,
	}
	if divider {
		recipe.Instructions = nonEmpty(trimNewlines(p.src[min(p.nodes.Pos(), len(p.src)):]))
	}
	if recipe.Tags == nil {
		recipe.Tags = []string{}
	}
	if recipe.Yields == nil {
		recipe.Yields = []model.Amount{}
	}
	if recipe.IngredientGroups == nil {
		recipe.IngredientGroups = []model.IngredientGroup{}
	}
	return recipe, nil
}

// source returns an owned copy of the source covered by span.
func (p *Parser) source(span markup.Span) string {
	return string([]byte(span.Slice(p.src)))
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	owned := string([]byte(s))
	return &owned
}
