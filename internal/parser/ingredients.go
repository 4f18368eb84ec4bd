package parser

import (
	"strings"

	"github.com/goliatone/go-recipemd/internal/amount"
	"github.com/goliatone/go-recipemd/internal/ast"
	"github.com/goliatone/go-recipemd/internal/markup"
	"github.com/goliatone/go-recipemd/internal/model"
)

// parseIngredients consumes the ingredient section. divider reports whether
// the section was closed by a horizontal line rather than end of input.
func (p *Parser) parseIngredients() (groups []model.IngredientGroup, divider bool, err *Error) {
	var (
		open     *model.IngredientGroup
		openSpan *markup.Span
	)

	for {
		node, ok := p.nodes.Next()
		if !ok {
			break
		}

		switch node.Kind {
		case ast.Heading:
			if open != nil {
				return nil, false, newError(ErrEmptyIngredientGroup, openSpan)
			}
			title := ""
			if len(node.Children) > 0 {
				title = p.source(ast.NodeList(node.Children).Span())
			}
			open = &model.IngredientGroup{Title: &title}
			openSpan = spanOf(node.Span)
		case ast.List:
			ingredients := make([]model.Ingredient, 0, len(node.Children))
			for _, item := range node.Children {
				ingredient, err := p.parseIngredient(ast.FlattenParagraphs(item))
				if err != nil {
					return nil, false, err
				}
				ingredients = append(ingredients, ingredient)
			}
			group := model.IngredientGroup{}
			if open != nil {
				group = *open
			}
			group.Ingredients = ingredients
			groups = append(groups, group)
			open = nil
		case ast.HorizontalLine:
			divider = true
		default:
			return nil, false, newError(ErrExpectedHorizontalLine, spanOf(node.Span))
		}

		if divider {
			break
		}
	}

	if open != nil || len(groups) == 0 {
		return nil, false, newError(ErrEmptyIngredientGroup, openSpan)
	}
	return groups, divider, nil
}

type shapeKind uint8

const (
	shapeEmpty shapeKind = iota + 1
	shapeWrapped
	shapeAmountLink
	shapeAmountName
	shapeLink
	shapeName
)

// shape is the classification of an ingredient's children. Only the fields
// relevant to kind are set.
type shape struct {
	kind   shapeKind
	amount *ast.Node
	link   *ast.Node
	rest   []ast.Node
	inner  *ast.Node
}

func classify(children []ast.Node) shape {
	switch {
	case len(children) == 0:
		return shape{kind: shapeEmpty}
	case len(children) == 1 && children[0].Kind == ast.Emphasis:
		return shape{kind: shapeEmpty}
	case len(children) == 1 && children[0].Kind == ast.Paragraph:
		return shape{kind: shapeWrapped, inner: &children[0]}
	case children[0].Kind == ast.Emphasis:
		if len(children) == 2 && children[1].Kind == ast.Link {
			return shape{kind: shapeAmountLink, amount: &children[0], link: &children[1]}
		}
		if len(children) == 3 && isSingleSpace(children[1]) && children[2].Kind == ast.Link {
			return shape{kind: shapeAmountLink, amount: &children[0], link: &children[2]}
		}
		return shape{kind: shapeAmountName, amount: &children[0], rest: children[1:]}
	case len(children) == 1 && children[0].Kind == ast.Link:
		return shape{kind: shapeLink, link: &children[0]}
	default:
		return shape{kind: shapeName, rest: children}
	}
}

func isSingleSpace(node ast.Node) bool {
	return node.Kind == ast.Text && node.Text == " "
}

// parseIngredient reads one list item or paragraph.
func (p *Parser) parseIngredient(node ast.Node) (model.Ingredient, *Error) {
	s := classify(node.Children)

	switch s.kind {
	case shapeEmpty:
		return model.Ingredient{}, newError(ErrEmptyIngredient, spanOf(node.Span))
	case shapeWrapped:
		return p.parseIngredient(*s.inner)
	case shapeAmountLink:
		if len(s.link.Children) == 0 {
			return model.Ingredient{}, newError(ErrEmptyIngredient, spanOf(s.link.Span))
		}
		name, err := p.name(s.link.Children, s.link.Span)
		if err != nil {
			return model.Ingredient{}, err
		}
		amt := p.amount(*s.amount)
		return model.Ingredient{Amount: &amt, Name: name, Link: escapedLink(*s.link)}, nil
	case shapeAmountName:
		name, err := p.name(s.rest, node.Span)
		if err != nil {
			return model.Ingredient{}, err
		}
		amt := p.amount(*s.amount)
		return model.Ingredient{Amount: &amt, Name: name}, nil
	case shapeLink:
		if len(s.link.Children) == 0 {
			return model.Ingredient{}, newError(ErrEmptyIngredient, spanOf(s.link.Span))
		}
		name, err := p.name(s.link.Children, s.link.Span)
		if err != nil {
			return model.Ingredient{}, err
		}
		return model.Ingredient{Name: name, Link: escapedLink(*s.link)}, nil
	default:
		name, err := p.name(s.rest, node.Span)
		if err != nil {
			return model.Ingredient{}, err
		}
		return model.Ingredient{Name: name}, nil
	}
}

// name returns the trimmed source of nodes. A name made only of whitespace
// and emphasis markers is empty.
func (p *Parser) name(nodes []ast.Node, blame markup.Span) (string, *Error) {
	name := strings.TrimSpace(p.source(ast.NodeList(nodes).Span()))
	if strings.Trim(name, " \t\r\n*_") == "" {
		return "", newError(ErrEmptyIngredient, spanOf(blame))
	}
	return name, nil
}

func (p *Parser) amount(emphasis ast.Node) model.Amount {
	span := emphasis.Span
	if len(emphasis.Children) > 0 {
		span = ast.NodeList(emphasis.Children).Span()
	}
	return amount.Parse(span.Slice(p.src))
}

func escapedLink(link ast.Node) *string {
	escaped := markup.EscapeHref(link.Destination)
	return &escaped
}
