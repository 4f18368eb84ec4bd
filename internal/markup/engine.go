package markup

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Options configures the goldmark engine backing a Stream.
type Options struct {
	// Extensions lists goldmark extensions by name ("table", "strikethrough",
	// "linkify", "tasklist", "gfm", ...). Unknown names are ignored. An empty
	// list keeps the parser strictly CommonMark.
	Extensions []string
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
}

// SupportedExtensions returns the extension names accepted by Options.
func SupportedExtensions() []string {
	names := make([]string, 0, len(extensionRegistry))
	for name := range extensionRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsSupportedExtension reports whether name resolves to a goldmark extension.
func IsSupportedExtension(name string) bool {
	_, ok := extensionRegistry[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

func newEngine(opts Options) goldmark.Markdown {
	var engineOptions []goldmark.Option
	if exts := collectExtensions(opts.Extensions); len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}
	return goldmark.New(engineOptions...)
}

func collectExtensions(names []string) []goldmark.Extender {
	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}
		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}

// Extenders resolves extension names to goldmark extenders, skipping unknown
// names and duplicates.
func Extenders(names []string) []goldmark.Extender {
	return collectExtensions(names)
}
