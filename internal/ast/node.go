// Package ast builds a simplified, span annotated node tree from the markup
// event stream. Only the constructs that carry recipe semantics keep their
// identity; everything else collapses to Other while still covering its
// source bytes.
package ast

import (
	"github.com/goliatone/go-recipemd/internal/markup"
)

// NodeKind is the closed set of node variants.
type NodeKind uint8

const (
	Heading NodeKind = iota + 1
	Paragraph
	Emphasis
	Strong
	List
	ListItem
	HorizontalLine
	Text
	Link
	Other
)

func (k NodeKind) String() string {
	switch k {
	case Heading:
		return "heading"
	case Paragraph:
		return "paragraph"
	case Emphasis:
		return "emphasis"
	case Strong:
		return "strong"
	case List:
		return "list"
	case ListItem:
		return "list_item"
	case HorizontalLine:
		return "horizontal_line"
	case Text:
		return "text"
	case Link:
		return "link"
	case Other:
		return "other"
	default:
		return "unknown"
	}
}

// Node is one element of the tree. Level is set for headings, Text for text
// leaves and Destination for links.
type Node struct {
	Kind        NodeKind
	Span        markup.Span
	Level       int
	Children    []Node
	Text        string
	Destination string
}

// IsContainer reports whether the node kind can hold children.
func (n Node) IsContainer() bool {
	switch n.Kind {
	case Heading, Paragraph, Emphasis, Strong, List, ListItem, Link:
		return true
	default:
		return false
	}
}

// NodeList is a run of adjacent sibling nodes.
type NodeList []Node

// Span returns first.Start..last.End. Calling it on an empty list is a
// programming error and panics.
func (l NodeList) Span() markup.Span {
	if len(l) == 0 {
		panic("ast: span of an empty node list")
	}
	return markup.Span{Start: l[0].Span.Start, End: l[len(l)-1].Span.End}
}

// FlattenParagraphs returns a copy of node where every Paragraph child of a
// container is replaced by its own children, recursively. Leaves are returned
// unchanged. Loose and tight list items end up with the same shape.
func FlattenParagraphs(node Node) Node {
	if !node.IsContainer() {
		return node
	}

	flat := make([]Node, 0, len(node.Children))
	for _, child := range node.Children {
		if child.Kind == Paragraph {
			for _, grandchild := range child.Children {
				flat = append(flat, FlattenParagraphs(grandchild))
			}
			continue
		}
		flat = append(flat, FlattenParagraphs(child))
	}

	node.Children = flat
	return node
}
