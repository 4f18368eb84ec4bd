package parser

import (
	"github.com/goliatone/go-recipemd/internal/amount"
	"github.com/goliatone/go-recipemd/internal/ast"
	"github.com/goliatone/go-recipemd/internal/markup"
	"github.com/goliatone/go-recipemd/internal/model"
)

func (p *Parser) parseTitle() (string, *Error) {
	node, ok := p.nodes.Next()
	if !ok {
		return "", newError(ErrExpectedTitle, nil)
	}
	if node.Kind != ast.Heading || node.Level != 1 || len(node.Children) == 0 {
		return "", newError(ErrExpectedTitle, spanOf(node.Span))
	}
	return p.source(ast.NodeList(node.Children).Span()), nil
}

type descriptionState uint8

const (
	descriptionNone descriptionState = iota
	descriptionStarted
	descriptionFinal
)

// descriptionCursor tracks where the description ends. Once final, further
// description content is an error.
type descriptionCursor struct {
	state descriptionState
	end   int
}

func (c *descriptionCursor) extend(span markup.Span) *Error {
	if c.state == descriptionFinal {
		return newError(ErrMultipleDescriptionSections, spanOf(span))
	}
	c.state = descriptionStarted
	c.end = span.End
	return nil
}

func (c *descriptionCursor) freeze() {
	if c.state == descriptionStarted {
		c.state = descriptionFinal
	}
}

type head struct {
	description *string
	tags        []string
	yields      []model.Amount
}

func (p *Parser) parseDescriptionTagsYields() (head, *Error) {
	start := p.nodes.Pos()
	var (
		cursor    descriptionCursor
		tags      []string
		yields    []model.Amount
		hasTags   bool
		hasYields bool
	)

	for {
		node, ok := p.nodes.Next()
		if !ok {
			return head{}, newError(ErrExpectedHorizontalLine, nil)
		}

		if node.Kind == ast.HorizontalLine {
			if cursor.state == descriptionStarted {
				cursor.end = node.Span.Start
				cursor.freeze()
			}
			break
		}

		if node.Kind != ast.Paragraph {
			if err := cursor.extend(node.Span); err != nil {
				return head{}, err
			}
			continue
		}

		children := ast.FlattenParagraphs(node).Children
		switch {
		case isSingleWrapped(children, ast.Emphasis):
			if hasTags {
				return head{}, newError(ErrMultipleTagsSections, spanOf(children[0].Span))
			}
			hasTags = true
			cursor.freeze()
			tags = splitList(p.source(ast.NodeList(children[0].Children).Span()))
		case isSingleWrapped(children, ast.Strong):
			if hasYields {
				return head{}, newError(ErrMultipleYieldsSections, spanOf(children[0].Span))
			}
			hasYields = true
			cursor.freeze()
			for _, item := range splitList(p.source(ast.NodeList(children[0].Children).Span())) {
				yields = append(yields, amount.Parse(item))
			}
		default:
			span := node.Span
			if len(children) > 0 {
				span = ast.NodeList(children).Span()
			}
			if err := cursor.extend(span); err != nil {
				return head{}, err
			}
		}
	}

	var description *string
	if cursor.state != descriptionNone {
		description = nonEmpty(trimNewlines(markup.Span{Start: start, End: cursor.end}.Slice(p.src)))
	}
	return head{description: description, tags: tags, yields: yields}, nil
}

// isSingleWrapped reports whether children is exactly one node of kind that
// itself has exactly one child.
func isSingleWrapped(children []ast.Node, kind ast.NodeKind) bool {
	return len(children) == 1 && children[0].Kind == kind && len(children[0].Children) == 1
}
