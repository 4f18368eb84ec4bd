// Package markup adapts the goldmark CommonMark parser into a flat, pull based
// stream of open/close events annotated with byte spans into the original
// source. Recipe parsing consumes the stream through Stream.Next and
// Stream.Peek and never touches goldmark types directly.
package markup
