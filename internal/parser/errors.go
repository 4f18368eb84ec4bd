package parser

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-recipemd/internal/markup"
)

// ErrorKind names why a document was rejected. Kinds are errors themselves so
// callers can match them with errors.Is.
type ErrorKind uint8

const (
	ErrExpectedTitle ErrorKind = iota + 1
	ErrExpectedHorizontalLine
	ErrMultipleTagsSections
	ErrMultipleYieldsSections
	ErrMultipleDescriptionSections
	ErrEmptyIngredient
	ErrEmptyIngredientGroup
)

var kindMessages = map[ErrorKind]string{
	ErrExpectedTitle:               "expected a first level heading as title",
	ErrExpectedHorizontalLine:      "expected a horizontal line",
	ErrMultipleTagsSections:        "found multiple tags sections",
	ErrMultipleYieldsSections:      "found multiple yields sections",
	ErrMultipleDescriptionSections: "found description sections that are split by tags or yields section(s)",
	ErrEmptyIngredient:             "ingredient is missing a name",
	ErrEmptyIngredientGroup:        "ingredient group is empty",
}

var kindCodes = map[ErrorKind]string{
	ErrExpectedTitle:               "RECIPE_EXPECTED_TITLE",
	ErrExpectedHorizontalLine:      "RECIPE_EXPECTED_HORIZONTAL_LINE",
	ErrMultipleTagsSections:        "RECIPE_MULTIPLE_TAGS_SECTIONS",
	ErrMultipleYieldsSections:      "RECIPE_MULTIPLE_YIELDS_SECTIONS",
	ErrMultipleDescriptionSections: "RECIPE_MULTIPLE_DESCRIPTION_SECTIONS",
	ErrEmptyIngredient:             "RECIPE_EMPTY_INGREDIENT",
	ErrEmptyIngredientGroup:        "RECIPE_EMPTY_INGREDIENT_GROUP",
}

func (k ErrorKind) Error() string {
	if msg, ok := kindMessages[k]; ok {
		return msg
	}
	return fmt.Sprintf("unknown recipe error %d", uint8(k))
}

// Code returns the stable text code used when the error crosses a service
// boundary.
func (k ErrorKind) Code() string {
	if code, ok := kindCodes[k]; ok {
		return code
	}
	return "RECIPE_PARSE_FAILED"
}

// Error reports the first problem found in a document. Span is nil when the
// problem was detected at end of input.
type Error struct {
	Kind ErrorKind
	Span *markup.Span
}

func newError(kind ErrorKind, span *markup.Span) *Error {
	return &Error{Kind: kind, Span: span}
}

func spanOf(s markup.Span) *markup.Span {
	return &s
}

func (e *Error) Error() string {
	if e.Span == nil {
		return "failed to parse recipe: " + e.Kind.Error() + " at end of input"
	}
	return fmt.Sprintf("failed to parse recipe: %s at %s", e.Kind.Error(), e.Span)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

// Code is shorthand for e.Kind.Code().
func (e *Error) Code() string {
	return e.Kind.Code()
}

// Offset returns the byte offset the error points at. Errors without a span
// point at the end of src.
func (e *Error) Offset(src string) int {
	if e.Span == nil {
		return len(src)
	}
	return e.Span.Start
}

// Position converts a byte offset into a 1-based line and column. Columns
// count runes. Offsets outside src are clamped.
func Position(src string, offset int) (line, column int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	prefix := src[:offset]
	line = strings.Count(prefix, "\n") + 1
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	column = utf8.RuneCountInString(prefix[lineStart:]) + 1
	return line, column
}
