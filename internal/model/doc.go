// Package model holds the recipe types produced by the parser. Values are
// plain data: every string is owned, nothing points back into the source
// document and no method mutates a value after it has been returned.
package model
