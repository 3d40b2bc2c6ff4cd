package jsconsole

import (
	"errors"
	"reflect"
	"strconv"
)

// undefinedText is what a missing field of an error-like value renders as.
const undefinedText = "undefined"

// Locator is implemented by errors that know the source position they were
// raised at.
type Locator interface {
	FileName() string
	LineNumber() int
}

// SourceError is an error raised at a known script position.
type SourceError struct {
	File    string
	Line    int
	Message string
}

func (e *SourceError) Error() string { return e.Message }

func (e *SourceError) FileName() string { return e.File }

func (e *SourceError) LineNumber() int { return e.Line }

// FormatReport joins a source location and a message into a one-line report
// of the form "[origin | LINE line] message". Nothing is escaped or truncated.
func FormatReport(origin, line, message string) string {
	return "[" + origin + " | LINE " + line + "] " + message
}

// FormatErrorReport formats err with FormatReport. A nil err, including a
// typed nil, yields the empty string. The location is taken from the first
// Locator in err's chain; without one, origin and line read "undefined".
func FormatErrorReport(err error) string {
	if isNilError(err) {
		return ""
	}
	origin, line := undefinedText, undefinedText
	var loc Locator
	if errors.As(err, &loc) {
		origin = loc.FileName()
		line = strconv.Itoa(loc.LineNumber())
	}
	return FormatReport(origin, line, err.Error())
}

func isNilError(err error) bool {
	if err == nil {
		return true
	}
	rv := reflect.ValueOf(err)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
