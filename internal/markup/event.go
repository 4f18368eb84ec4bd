package markup

// EventKind classifies a single item of the event stream.
type EventKind uint8

const (
	// EventStart opens a container described by Event.Tag.
	EventStart EventKind = iota + 1
	// EventEnd closes the container opened by the matching EventStart.
	EventEnd
	// EventText carries literal text.
	EventText
	// EventRule is a thematic break (horizontal line).
	EventRule
	// EventSoftBreak is a line ending inside a paragraph.
	EventSoftBreak
	// EventHardBreak is an explicit line break.
	EventHardBreak
	// EventHTML carries inline raw HTML.
	EventHTML
	// EventOther is any leaf without recipe semantics (task check boxes, ...).
	EventOther
)

func (k EventKind) String() string {
	switch k {
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventText:
		return "text"
	case EventRule:
		return "rule"
	case EventSoftBreak:
		return "soft_break"
	case EventHardBreak:
		return "hard_break"
	case EventHTML:
		return "html"
	case EventOther:
		return "other"
	default:
		return "unknown"
	}
}

// TagKind identifies the container opened or closed by a start/end event.
type TagKind uint8

const (
	TagHeading TagKind = iota + 1
	TagParagraph
	TagEmphasis
	TagStrong
	TagList
	TagItem
	TagLink
	TagImage
	TagBlockQuote
	TagCodeBlock
	TagCodeSpan
	TagHTMLBlock
	TagOther
)

func (k TagKind) String() string {
	switch k {
	case TagHeading:
		return "heading"
	case TagParagraph:
		return "paragraph"
	case TagEmphasis:
		return "emphasis"
	case TagStrong:
		return "strong"
	case TagList:
		return "list"
	case TagItem:
		return "item"
	case TagLink:
		return "link"
	case TagImage:
		return "image"
	case TagBlockQuote:
		return "block_quote"
	case TagCodeBlock:
		return "code_block"
	case TagCodeSpan:
		return "code_span"
	case TagHTMLBlock:
		return "html_block"
	case TagOther:
		return "other"
	default:
		return "unknown"
	}
}

// Tag describes a container. Only the fields relevant to Kind are populated.
type Tag struct {
	Kind TagKind
	// Level is the heading level (1-6) for TagHeading.
	Level int
	// Ordered marks numbered lists for TagList.
	Ordered bool
	// Destination is the raw link target for TagLink and TagImage.
	Destination string
	// Title is the optional link title for TagLink and TagImage.
	Title string
	// Name is the goldmark node kind for TagOther.
	Name string
}

// Event is one item of the stream. Start and end events of the same container
// carry the same span, covering the whole container.
type Event struct {
	Kind EventKind
	Tag  Tag
	Span Span
	// Text holds the literal content of text, html and other leaf events.
	Text string
}

// Opens reports whether the event opens a container.
func (e Event) Opens() bool {
	return e.Kind == EventStart
}

// Closes reports whether the event closes a container.
func (e Event) Closes() bool {
	return e.Kind == EventEnd
}
