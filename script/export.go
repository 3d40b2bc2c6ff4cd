package script

import (
	"regexp"
	"strconv"

	"github.com/dop251/goja"

	"github.com/calumari/jsconsole"
)

// Export converts a script value into the jsconsole value model:
//   - undefined, functions and symbols -> jsconsole.Undefined
//   - null                             -> nil
//   - arrays                           -> *jsconsole.Array
//   - objects with a callable toJSON   -> the export of its result, so Dates
//     read as their ISO string
//   - Number, String and Boolean boxes -> their primitive
//   - other objects                    -> *jsconsole.Document, own enumerable
//     keys in insertion order
//   - primitives                       -> their goja export
//
// An object reached more than once converts to the same pointer, so shared
// and circular references survive as pointer identity.
func Export(v goja.Value) any {
	e := &exporter{cache: make(map[*goja.Object]any)}
	return e.export(v)
}

type exporter struct {
	cache map[*goja.Object]any
}

func (e *exporter) export(v goja.Value) any {
	return e.exportValue(v, true)
}

func (e *exporter) exportValue(v goja.Value, toJSON bool) any {
	if v == nil || goja.IsUndefined(v) {
		return jsconsole.Undefined
	}
	if goja.IsNull(v) {
		return nil
	}
	if _, ok := v.(*goja.Symbol); ok {
		return jsconsole.Undefined
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return v.Export()
	}
	if cached, ok := e.cache[obj]; ok {
		return cached
	}
	if _, ok := goja.AssertFunction(obj); ok {
		return jsconsole.Undefined
	}

	if toJSON {
		if fn, ok := goja.AssertFunction(obj.Get("toJSON")); ok {
			// nil while the result converts, so a result leading back here reads null
			e.cache[obj] = nil
			res, err := fn(obj)
			if err != nil {
				e.cache[obj] = jsconsole.Undefined
				return jsconsole.Undefined
			}
			if res == obj {
				delete(e.cache, obj)
			}
			out := e.exportValue(res, false)
			e.cache[obj] = out
			return out
		}
	}

	switch obj.ClassName() {
	case "Number", "String", "Boolean":
		if fn, ok := goja.AssertFunction(obj.Get("valueOf")); ok {
			if prim, err := fn(obj); err == nil {
				return e.exportValue(prim, false)
			}
		}
	case "Array":
		arr := &jsconsole.Array{}
		e.cache[obj] = arr
		n := obj.Get("length").ToInteger()
		for i := int64(0); i < n; i++ {
			*arr = append(*arr, e.export(obj.Get(strconv.FormatInt(i, 10))))
		}
		return arr
	}

	doc := &jsconsole.Document{}
	e.cache[obj] = doc
	for _, k := range obj.Keys() {
		*doc = append(*doc, jsconsole.Entry{Key: k, Value: e.export(obj.Get(k))})
	}
	return doc
}

const undefinedText = "undefined"

// valueString mirrors JavaScript string conversion for printing.
func valueString(v goja.Value) string {
	if v == nil {
		return undefinedText
	}
	return v.String()
}

// property reads a property as text; a missing property reads "undefined".
func property(obj *goja.Object, name string) string {
	return valueString(obj.Get(name))
}

// frame matches the first positioned frame of a goja stack trace, either
// "at file.js:3:7(12)" or "at fn (file.js:3:7(12))".
var frame = regexp.MustCompile(`(?m)^\s*at (?:[^\n(]*\()?([^\s()]+):(\d+):\d+`)

// stackLocation reads the file and line of the innermost positioned frame.
func stackLocation(stack string) (file, line string, ok bool) {
	m := frame.FindStringSubmatch(stack)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// location reads fileName and lineNumber from obj. When both are missing the
// position comes from the stack property goja sets on Error objects.
func location(obj *goja.Object) (file, line string) {
	fileName, lineNumber := obj.Get("fileName"), obj.Get("lineNumber")
	if isMissing(fileName) && isMissing(lineNumber) {
		if stack := obj.Get("stack"); !isMissing(stack) {
			if f, l, ok := stackLocation(stack.String()); ok {
				return f, l
			}
		}
	}
	return valueString(fileName), valueString(lineNumber)
}

func isMissing(v goja.Value) bool {
	return v == nil || goja.IsUndefined(v)
}

// errorReport builds the report for a thrown or passed error-like value from
// its location and message. Falsy values yield the empty string.
func errorReport(v goja.Value) string {
	if v == nil || !v.ToBoolean() {
		return ""
	}
	obj, ok := v.(*goja.Object)
	if !ok {
		return jsconsole.FormatReport(undefinedText, undefinedText, undefinedText)
	}
	file, line := location(obj)
	return jsconsole.FormatReport(file, line, property(obj, "message"))
}

// dumpValue renders v for getDump and dump. Falsy values yield the empty
// string.
func dumpValue(d *jsconsole.Dumper, v goja.Value) string {
	if v == nil || !v.ToBoolean() {
		return ""
	}
	return d.Dump(Export(v))
}
