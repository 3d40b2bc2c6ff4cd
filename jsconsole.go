// Package jsconsole provides a console shim for script hosts that lack one:
// a cycle-safe structured dumper, an error report formatter and a Console
// adapter that routes both to an injected print sink.
package jsconsole

// Document represents a keyed mapping, defined as an ordered collection of
// key-value pairs. Each entry in the document is represented by an Entry.
type Document []Entry

// Array represents an ordered sequence, defined as a slice of values of any
// type.
type Array []any

// Entry represents a single entry in a document. It consists of a string key and
// an associated value of any type.
type Entry struct {
	Key   string
	Value any
}

// Short aliases for building literals.
type (
	D = Document
	A = Array
	E = Entry
)

type undefined struct{}

// Undefined stands in for a script value that has no serialized form, such as
// JavaScript undefined or a function. It is omitted when it appears as a
// document member, rendered as null inside an array and rendered as the empty
// string at the top level.
var Undefined any = undefined{}

// IsUndefined reports whether v is the Undefined sentinel.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}
