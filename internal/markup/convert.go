package markup

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// converter flattens a goldmark AST into events. goldmark only records
// segments for text content, so container spans are rebuilt from the
// children's spans plus the surrounding markers found in the source.
type converter struct {
	src    []byte
	events []Event
}

func (c *converter) document(doc ast.Node) {
	c.children(doc, 0)
}

// children visits every child of n in order and returns the span covering
// all of them. ok is false when n has no children.
func (c *converter) children(n ast.Node, from int) (span Span, ok bool) {
	cursor := from
	span = Span{Start: from, End: from}
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		childSpan := c.visit(child, cursor)
		if !ok {
			span.Start = childSpan.Start
			ok = true
		}
		if childSpan.End > span.End {
			span.End = childSpan.End
		}
		if childSpan.End > cursor {
			cursor = childSpan.End
		}
	}
	return span, ok
}

func (c *converter) visit(n ast.Node, from int) Span {
	switch node := n.(type) {
	case *ast.Text:
		return c.text(node)
	case *ast.String:
		span := Span{Start: from, End: from}
		c.emit(Event{Kind: EventText, Span: span, Text: string(node.Value)})
		return span
	case *ast.ThematicBreak:
		span := c.thematicBreak(from)
		c.emit(Event{Kind: EventRule, Span: span})
		return span
	case *ast.TextBlock:
		// tight list items: no paragraph events, children go to the item directly
		inner, ok := c.children(node, from)
		if !ok {
			return c.linesSpan(node, from)
		}
		return Span{Start: inner.Start, End: c.lineEnd(inner.End)}
	case *ast.RawHTML:
		span := c.segmentsSpan(node.Segments, from)
		c.emit(Event{Kind: EventHTML, Span: span, Text: span.Slice(string(c.src))})
		return span
	case *ast.AutoLink:
		return c.autoLink(node, from)
	case *east.TaskCheckBox:
		span := c.taskCheckBox(from)
		c.emit(Event{Kind: EventOther, Span: span, Text: span.Slice(string(c.src))})
		return span
	}

	tag := tagFor(n)
	open := len(c.events)
	c.emit(Event{Kind: EventStart, Tag: tag})
	inner, ok := c.children(n, from)
	span := c.containerSpan(n, inner, ok, from)
	c.events[open].Span = span
	c.emit(Event{Kind: EventEnd, Tag: tag, Span: span})
	return span
}

// emit appends ev, merging text that directly continues the previous text
// event so a run of characters reaches the consumer as one leaf.
func (c *converter) emit(ev Event) {
	if ev.Kind == EventText && len(c.events) > 0 {
		last := &c.events[len(c.events)-1]
		if last.Kind == EventText && last.Span.End == ev.Span.Start {
			last.Span.End = ev.Span.End
			last.Text += ev.Text
			return
		}
	}
	c.events = append(c.events, ev)
}

func tagFor(n ast.Node) Tag {
	switch node := n.(type) {
	case *ast.Heading:
		return Tag{Kind: TagHeading, Level: node.Level}
	case *ast.Paragraph:
		return Tag{Kind: TagParagraph}
	case *ast.Emphasis:
		if node.Level >= 2 {
			return Tag{Kind: TagStrong}
		}
		return Tag{Kind: TagEmphasis}
	case *ast.List:
		return Tag{Kind: TagList, Ordered: node.IsOrdered()}
	case *ast.ListItem:
		return Tag{Kind: TagItem}
	case *ast.Link:
		return Tag{Kind: TagLink, Destination: string(node.Destination), Title: string(node.Title)}
	case *ast.Image:
		return Tag{Kind: TagImage, Destination: string(node.Destination), Title: string(node.Title)}
	case *ast.Blockquote:
		return Tag{Kind: TagBlockQuote}
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		return Tag{Kind: TagCodeBlock}
	case *ast.CodeSpan:
		return Tag{Kind: TagCodeSpan}
	case *ast.HTMLBlock:
		return Tag{Kind: TagHTMLBlock}
	default:
		return Tag{Kind: TagOther, Name: n.Kind().String()}
	}
}

func (c *converter) text(node *ast.Text) Span {
	span := Span{Start: node.Segment.Start, End: node.Segment.Stop}
	c.emit(Event{Kind: EventText, Span: span, Text: string(node.Segment.Value(c.src))})

	switch {
	case node.HardLineBreak():
		brk := Span{Start: span.End, End: c.lineEnd(span.End)}
		c.emit(Event{Kind: EventHardBreak, Span: brk})
		return Span{Start: span.Start, End: brk.End}
	case node.SoftLineBreak():
		brk := Span{Start: span.End, End: c.lineEnd(span.End)}
		c.emit(Event{Kind: EventSoftBreak, Span: brk})
		return Span{Start: span.Start, End: brk.End}
	}
	return span
}

func (c *converter) containerSpan(n ast.Node, inner Span, ok bool, from int) Span {
	switch node := n.(type) {
	case *ast.Heading:
		return c.headingSpan(node, from)
	case *ast.Paragraph, *ast.CodeBlock:
		return c.linesSpan(n, from)
	case *ast.FencedCodeBlock:
		return c.fencedSpan(node, from)
	case *ast.HTMLBlock:
		span := c.linesSpan(node, from)
		if node.HasClosure() {
			span.End = c.lineEnd(node.ClosureLine.Stop)
		}
		return span
	case *ast.ListItem:
		if !ok {
			start := c.skipBlank(from)
			return Span{Start: start, End: c.lineEndFrom(start)}
		}
		return Span{Start: c.itemMarkerStart(inner.Start), End: inner.End}
	case *ast.Blockquote:
		if !ok {
			start := c.skipBlank(from)
			return Span{Start: start, End: c.lineEndFrom(start)}
		}
		return Span{Start: c.quoteMarkerStart(inner.Start), End: inner.End}
	case *ast.Emphasis:
		return c.widen(inner, node.Level)
	case *ast.Link:
		return c.linkSpan(inner, ok, from)
	case *ast.Image:
		span := c.linkSpan(inner, ok, from)
		if span.Start > 0 && c.src[span.Start-1] == '!' {
			span.Start--
		}
		return span
	case *ast.CodeSpan:
		if !ok {
			return c.delimitedRun(from, '`')
		}
		return c.codeSpanSpan(inner)
	case *east.Strikethrough:
		return c.widenRun(inner, '~')
	}

	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		span := c.linesSpan(n, from)
		if ok {
			span = union(span, inner)
		}
		return span
	}
	if ok {
		return inner
	}
	if n.Type() == ast.TypeBlock {
		start := c.skipBlank(from)
		return Span{Start: start, End: c.lineEndFrom(start)}
	}
	return Span{Start: from, End: from}
}

func (c *converter) linesSpan(n ast.Node, from int) Span {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		start := c.skipBlank(from)
		return Span{Start: start, End: c.lineEndFrom(start)}
	}
	first, last := lines.At(0), lines.At(lines.Len()-1)
	return Span{Start: first.Start, End: c.lineEnd(last.Stop)}
}

func (c *converter) segmentsSpan(segments *text.Segments, from int) Span {
	if segments == nil || segments.Len() == 0 {
		return Span{Start: from, End: from}
	}
	return Span{Start: segments.At(0).Start, End: segments.At(segments.Len() - 1).Stop}
}

func (c *converter) headingSpan(node *ast.Heading, from int) Span {
	lines := node.Lines()
	if lines == nil || lines.Len() == 0 {
		start := c.skipBlank(from)
		return Span{Start: start, End: c.lineEndFrom(start)}
	}
	first, last := lines.At(0), lines.At(lines.Len()-1)
	if start, atx := c.atxMarkerStart(first.Start); atx {
		return Span{Start: start, End: c.lineEnd(last.Stop)}
	}
	// setext: the underline sits on the line after the content
	return Span{Start: first.Start, End: c.lineEndFrom(c.lineEnd(last.Stop))}
}

func (c *converter) fencedSpan(node *ast.FencedCodeBlock, from int) Span {
	var start int
	switch {
	case node.Info != nil:
		start = c.firstNonSpace(c.lineStart(node.Info.Segment.Start))
	case node.Lines().Len() > 0:
		contentLine := c.lineStart(node.Lines().At(0).Start)
		start = c.firstNonSpace(c.lineStart(max(contentLine-1, 0)))
	default:
		start = c.skipBlank(from)
	}

	end := c.lineEndFrom(start)
	if lines := node.Lines(); lines.Len() > 0 {
		end = c.lineEnd(lines.At(lines.Len() - 1).Stop)
	}
	if end < len(c.src) && c.isFenceLine(end) {
		end = c.lineEndFrom(end)
	}
	return Span{Start: start, End: end}
}

func (c *converter) isFenceLine(pos int) bool {
	line := bytes.TrimLeft(c.src[pos:c.lineEndFrom(pos)], " \t")
	return bytes.HasPrefix(line, []byte("```")) || bytes.HasPrefix(line, []byte("~~~"))
}

func (c *converter) thematicBreak(from int) Span {
	for pos := from; pos < len(c.src); {
		end := c.lineEndFrom(pos)
		if offset, ok := thematicBreakOffset(c.src[pos:end]); ok {
			return Span{Start: pos + offset, End: end}
		}
		pos = end
	}
	return Span{Start: from, End: from}
}

// thematicBreakOffset looks for a thematic break on line, stepping over
// block quote and list item markers that may precede it.
func thematicBreakOffset(line []byte) (int, bool) {
	pos := 0
	for {
		for pos < len(line) && (line[pos] == ' ' || line[pos] == '\t' || line[pos] == '>') {
			pos++
		}
		if isThematicBreak(line[pos:]) {
			return pos, true
		}
		next, ok := skipListMarker(line, pos)
		if !ok {
			return 0, false
		}
		pos = next
	}
}

func skipListMarker(line []byte, pos int) (int, bool) {
	i := pos
	switch {
	case i < len(line) && (line[i] == '-' || line[i] == '+' || line[i] == '*'):
		i++
	default:
		for i < len(line) && line[i] >= '0' && line[i] <= '9' {
			i++
		}
		if i == pos || i >= len(line) || (line[i] != '.' && line[i] != ')') {
			return 0, false
		}
		i++
	}
	if i < len(line) && line[i] != ' ' && line[i] != '\t' {
		return 0, false
	}
	return i, true
}

func isThematicBreak(line []byte) bool {
	line = bytes.TrimRight(line, " \t\r\n")
	if len(line) == 0 {
		return false
	}
	marker := line[0]
	if marker != '-' && marker != '*' && marker != '_' {
		return false
	}
	count := 0
	for _, b := range line {
		switch b {
		case marker:
			count++
		case ' ', '\t':
		default:
			return false
		}
	}
	return count >= 3
}

func (c *converter) linkSpan(inner Span, ok bool, from int) Span {
	var start, closing int
	if ok {
		start = inner.Start - 1
		if start < 0 || c.src[start] != '[' {
			start = c.lastIndexBefore(inner.Start, '[')
		}
		closing = inner.End
	} else {
		start = c.indexFrom(from, '[')
		closing = start + 1
	}
	if closing >= len(c.src) || c.src[closing] != ']' {
		closing = c.indexFrom(closing, ']')
	}
	return Span{Start: start, End: c.linkTail(closing + 1)}
}

// linkTail returns the end of the destination part that follows "]":
// "(dest "title")", "[label]" or nothing for shortcut references.
func (c *converter) linkTail(pos int) int {
	if pos >= len(c.src) {
		return len(c.src)
	}
	switch c.src[pos] {
	case '(':
		depth := 0
		for i := pos; i < len(c.src); i++ {
			switch b := c.src[i]; b {
			case '\\':
				i++
			case '"', '\'':
				if i > pos && isSpace(c.src[i-1]) {
					if j := bytes.IndexByte(c.src[i+1:], b); j >= 0 {
						i += j + 1
					}
				}
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
		return pos
	case '[':
		if j := bytes.IndexByte(c.src[pos:], ']'); j >= 0 {
			return pos + j + 1
		}
	}
	return pos
}

func (c *converter) autoLink(node *ast.AutoLink, from int) Span {
	label := node.Label(c.src)
	start := from
	if idx := bytes.Index(c.src[from:], label); idx >= 0 {
		start = from + idx
	}
	labelSpan := Span{Start: start, End: start + len(label)}
	span := labelSpan
	if span.Start > 0 && c.src[span.Start-1] == '<' && span.End < len(c.src) && c.src[span.End] == '>' {
		span = Span{Start: span.Start - 1, End: span.End + 1}
	}

	tag := Tag{Kind: TagLink, Destination: string(node.URL(c.src))}
	c.emit(Event{Kind: EventStart, Tag: tag, Span: span})
	c.emit(Event{Kind: EventText, Span: labelSpan, Text: string(label)})
	c.emit(Event{Kind: EventEnd, Tag: tag, Span: span})
	return span
}

func (c *converter) taskCheckBox(from int) Span {
	start := c.indexFrom(from, '[')
	end := c.indexFrom(start, ']') + 1
	if end > len(c.src) {
		end = len(c.src)
	}
	return Span{Start: start, End: end}
}

func (c *converter) codeSpanSpan(inner Span) Span {
	start := inner.Start
	if start > 0 && c.src[start-1] == ' ' {
		start--
	}
	for start > 0 && c.src[start-1] == '`' {
		start--
	}
	end := inner.End
	if end < len(c.src) && c.src[end] == ' ' {
		end++
	}
	for end < len(c.src) && c.src[end] == '`' {
		end++
	}
	return Span{Start: start, End: end}
}

// delimitedRun locates a run of marker bytes and the matching closing run.
func (c *converter) delimitedRun(from int, marker byte) Span {
	start := c.indexFrom(from, marker)
	pos := start
	for pos < len(c.src) && c.src[pos] == marker {
		pos++
	}
	width := pos - start
	closing := bytes.Index(c.src[pos:], bytes.Repeat([]byte{marker}, width))
	if closing < 0 {
		return Span{Start: start, End: pos}
	}
	return Span{Start: start, End: pos + closing + width}
}

func (c *converter) widen(inner Span, width int) Span {
	start, end := inner.Start-width, inner.End+width
	if start < 0 {
		start = 0
	}
	if end > len(c.src) {
		end = len(c.src)
	}
	return Span{Start: start, End: end}
}

func (c *converter) widenRun(inner Span, marker byte) Span {
	start, end := inner.Start, inner.End
	for start > 0 && c.src[start-1] == marker {
		start--
	}
	for end < len(c.src) && c.src[end] == marker {
		end++
	}
	return Span{Start: start, End: end}
}

func (c *converter) atxMarkerStart(content int) (int, bool) {
	i := content
	for i > 0 && (c.src[i-1] == ' ' || c.src[i-1] == '\t') {
		i--
	}
	j := i
	for j > 0 && c.src[j-1] == '#' {
		j--
	}
	if j == i {
		return 0, false
	}
	return j, true
}

func (c *converter) itemMarkerStart(content int) int {
	i := content
	for i > 0 && (c.src[i-1] == ' ' || c.src[i-1] == '\t') {
		i--
	}
	if i == 0 {
		return c.firstNonSpace(c.lineStart(content))
	}
	switch c.src[i-1] {
	case '-', '+', '*':
		return i - 1
	case '.', ')':
		j := i - 1
		for j > 0 && c.src[j-1] >= '0' && c.src[j-1] <= '9' {
			j--
		}
		if j < i-1 {
			return j
		}
	}
	return c.firstNonSpace(c.lineStart(content))
}

func (c *converter) quoteMarkerStart(content int) int {
	i := content
	for i > 0 && c.src[i-1] != '\n' {
		i--
		if c.src[i] == '>' {
			content = i
		}
	}
	return content
}

func (c *converter) lineStart(pos int) int {
	for pos > 0 && c.src[pos-1] != '\n' {
		pos--
	}
	return pos
}

// lineEnd returns the position just past the newline terminating the line
// that contains stop. A stop that already follows a newline is returned as is.
func (c *converter) lineEnd(stop int) int {
	if stop > len(c.src) {
		return len(c.src)
	}
	if stop > 0 && c.src[stop-1] == '\n' {
		return stop
	}
	return c.lineEndFrom(stop)
}

func (c *converter) lineEndFrom(pos int) int {
	if pos >= len(c.src) {
		return len(c.src)
	}
	if i := bytes.IndexByte(c.src[pos:], '\n'); i >= 0 {
		return pos + i + 1
	}
	return len(c.src)
}

func (c *converter) skipBlank(pos int) int {
	for pos < len(c.src) && isSpace(c.src[pos]) {
		pos++
	}
	return pos
}

func (c *converter) firstNonSpace(pos int) int {
	for pos < len(c.src) && (c.src[pos] == ' ' || c.src[pos] == '\t') {
		pos++
	}
	return pos
}

func (c *converter) indexFrom(pos int, b byte) int {
	if pos >= len(c.src) {
		return len(c.src)
	}
	if i := bytes.IndexByte(c.src[pos:], b); i >= 0 {
		return pos + i
	}
	return len(c.src)
}

func (c *converter) lastIndexBefore(pos int, b byte) int {
	if i := bytes.LastIndexByte(c.src[:pos], b); i >= 0 {
		return i
	}
	return pos
}

func union(a, b Span) Span {
	return Span{Start: min(a.Start, b.Start), End: max(a.End, b.End)}
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
