// Package render turns parsed recipes into HTML. Free text (description and
// instructions) goes through goldmark; the surrounding page comes from an
// html/template.
package render

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-recipemd/internal/markup"
	"github.com/goliatone/go-recipemd/internal/model"
)

// Options mirrors the render section of the runtime configuration.
type Options struct {
	Extensions []string
	HardWraps  bool
	// Unsafe lets raw HTML in descriptions and instructions through.
	Unsafe bool
	XHTML  bool
}

// Renderer is stateless after construction and safe for concurrent use.
type Renderer struct {
	engine goldmark.Markdown
}

// New builds a renderer for opts.
func New(opts Options) *Renderer {
	return &Renderer{engine: newGoldmarkEngine(opts)}
}

func newGoldmarkEngine(opts Options) goldmark.Markdown {
	var rendererOptions []renderer.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}
	if opts.XHTML {
		rendererOptions = append(rendererOptions, html.WithXHTML())
	}

	var engineOptions []goldmark.Option
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	if exts := markup.Extenders(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

// Markdown renders a Markdown fragment.
func (r *Renderer) Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// RecipeHTML holds the rendered parts of a recipe.
type RecipeHTML struct {
	Title        string
	Description  template.HTML
	Tags         []string
	Yields       []string
	Groups       []GroupHTML
	Instructions template.HTML
}

// GroupHTML is one ingredient group; the untitled leading group has an empty Title.
type GroupHTML struct {
	Title       string
	Ingredients []IngredientHTML
}

// IngredientHTML keeps the name as rendered Markdown since names may carry
// inline formatting. Href is the href attribute built from the already
// escaped link.
type IngredientHTML struct {
	Amount string
	Name   template.HTML
	Href   template.HTMLAttr
}

// Recipe renders every free-text part of recipe.
func (r *Renderer) Recipe(recipe *model.Recipe) (*RecipeHTML, error) {
	if recipe == nil {
		return nil, fmt.Errorf("render recipe: nil recipe")
	}

	out := &RecipeHTML{
		Title: recipe.Title,
		Tags:  append([]string(nil), recipe.Tags...),
	}
	for _, y := range recipe.Yields {
		out.Yields = append(out.Yields, y.String())
	}

	var err error
	if recipe.Description != nil {
		if out.Description, err = r.Markdown(*recipe.Description); err != nil {
			return nil, err
		}
	}
	if recipe.Instructions != nil {
		if out.Instructions, err = r.Markdown(*recipe.Instructions); err != nil {
			return nil, err
		}
	}

	for _, group := range recipe.IngredientGroups {
		g := GroupHTML{}
		if group.Title != nil {
			g.Title = *group.Title
		}
		for _, ing := range group.Ingredients {
			item, err := r.ingredient(ing)
			if err != nil {
				return nil, err
			}
			g.Ingredients = append(g.Ingredients, item)
		}
		out.Groups = append(out.Groups, g)
	}
	return out, nil
}

func (r *Renderer) ingredient(ing model.Ingredient) (IngredientHTML, error) {
	var buf bytes.Buffer
	if err := r.engine.Convert([]byte(ing.Name), &buf); err != nil {
		return IngredientHTML{}, fmt.Errorf("render ingredient: %w", err)
	}
	item := IngredientHTML{Name: template.HTML(unwrapParagraph(buf.Bytes()))}
	if ing.Amount != nil {
		item.Amount = ing.Amount.String()
	}
	if ing.Link != nil {
		item.Href = template.HTMLAttr(`href="` + *ing.Link + `"`)
	}
	return item, nil
}

// unwrapParagraph strips the single <p> goldmark wraps inline text in.
func unwrapParagraph(b []byte) []byte {
	b = bytes.TrimSpace(b)
	if bytes.HasPrefix(b, []byte("<p>")) && bytes.HasSuffix(b, []byte("</p>")) &&
		bytes.Count(b, []byte("<p>")) == 1 {
		return b[3 : len(b)-4]
	}
	return b
}

// Page renders a standalone HTML fragment for recipe.
func (r *Renderer) Page(recipe *model.Recipe) ([]byte, error) {
	parts, err := r.Recipe(recipe)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, parts); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return buf.Bytes(), nil
}
