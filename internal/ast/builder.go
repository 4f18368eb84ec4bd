package ast

import (
	"fmt"

	"github.com/goliatone/go-recipemd/internal/markup"
)

// EventSource is the pull interface the builder consumes.
type EventSource interface {
	Next() (markup.Event, bool)
	Peek() (markup.Event, bool)
}

// Builder turns an event stream into nodes, one top level node per call.
type Builder struct {
	events EventSource
	pos    int
}

// NewBuilder returns a builder reading from events.
func NewBuilder(events EventSource) *Builder {
	return &Builder{events: events}
}

// Pos is the end offset of the most recently produced node.
func (b *Builder) Pos() int {
	return b.pos
}

// Next returns the next node at the current nesting level. It returns false
// at end of input or when the next event closes the enclosing container; the
// close event is left for the caller.
func (b *Builder) Next() (Node, bool) {
	peeked, ok := b.events.Peek()
	if !ok || peeked.Closes() {
		return Node{}, false
	}

	ev, _ := b.events.Next()
	var node Node

	switch ev.Kind {
	case markup.EventStart:
		children, end := b.children(ev.Tag)
		node = Node{
			Kind:     kindFor(ev.Tag),
			Span:     markup.Span{Start: ev.Span.Start, End: end},
			Children: children,
		}
		switch node.Kind {
		case Heading:
			node.Level = ev.Tag.Level
		case Link:
			node.Destination = ev.Tag.Destination
		case Other:
			node.Children = nil
		}
	case markup.EventRule:
		node = Node{Kind: HorizontalLine, Span: ev.Span}
	case markup.EventText:
		node = Node{Kind: Text, Span: ev.Span, Text: ev.Text}
	default:
		node = Node{Kind: Other, Span: ev.Span}
	}

	b.pos = node.Span.End
	return node, true
}

// children collects nodes until the close event for open and returns them
// with the end offset of that close event.
func (b *Builder) children(open markup.Tag) ([]Node, int) {
	var nodes []Node
	for {
		node, ok := b.Next()
		if !ok {
			break
		}
		nodes = append(nodes, node)
	}

	ev, ok := b.events.Next()
	if !ok || !ev.Closes() || ev.Tag.Kind != open.Kind {
		panic(fmt.Sprintf("ast: expected end of %s, got %s %s", open.Kind, ev.Kind, ev.Tag.Kind))
	}
	return nodes, ev.Span.End
}

func kindFor(tag markup.Tag) NodeKind {
	switch tag.Kind {
	case markup.TagHeading:
		return Heading
	case markup.TagParagraph:
		return Paragraph
	case markup.TagEmphasis:
		return Emphasis
	case markup.TagStrong:
		return Strong
	case markup.TagList:
		return List
	case markup.TagItem:
		return ListItem
	case markup.TagLink:
		return Link
	default:
		return Other
	}
}
