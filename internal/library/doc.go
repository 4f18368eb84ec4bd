// Package library discovers RecipeMD files on a filesystem, splits optional
// YAML front matter from the Markdown body and parses the body into a
// model.Recipe. Documents carry a slug, a deterministic identifier and a
// checksum so they can be stored in the catalog.
package library
