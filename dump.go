package jsconsole

import (
	"bytes"
	"encoding"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/davecgh/go-spew/spew"
	json "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// DefaultIndent is the number of spaces per nesting level used by Dump.
const DefaultIndent = 4

var (
	documentType      = reflect.TypeFor[Document]()
	undefinedType     = reflect.TypeFor[undefined]()
	errorType         = reflect.TypeFor[error]()
	jsonMarshalerType = reflect.TypeFor[json.Marshaler]()
	textMarshalerType = reflect.TypeFor[encoding.TextMarshaler]()
)

// Option configures a Dumper.
type Option func(*Dumper)

// WithIndent sets the number of spaces per nesting level. Negative values are
// treated as zero.
func WithIndent(n int) Option {
	return func(d *Dumper) {
		d.indent = strings.Repeat(" ", max(n, 0))
	}
}

// Dumper renders arbitrary values as indented JSON-style text without failing
// on shared or circular references.
//
// Every pointer, map and non-empty slice entered during a call is remembered.
// Any later encounter of the same composite within that call renders as null,
// whether it is a true cycle or a sibling duplicate. Pointers to distinct
// zero-size values may share one address, as Go allows, and then collapse the
// same way. The output is meant for reading and is not round-trippable.
type Dumper struct {
	indent string
}

// NewDumper returns a Dumper using DefaultIndent unless overridden.
func NewDumper(opts ...Option) *Dumper {
	d := &Dumper{indent: strings.Repeat(" ", DefaultIndent)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

var defaultDumper = NewDumper()

// Dump renders v with the default Dumper.
func Dump(v any) string {
	return defaultDumper.Dump(v)
}

// Dump renders v. A nil value, a typed nil and Undefined render as the empty
// string. Dump never panics; if the structured rendering fails for any reason
// it falls back to a depth-limited go-spew rendering of v.
func (d *Dumper) Dump(v any) (out string) {
	if isAbsent(v) {
		return ""
	}
	defer func() {
		if r := recover(); r != nil {
			out = d.fallback(v)
		}
	}()
	s, err := d.encode(v)
	if err != nil {
		return d.fallback(v)
	}
	return s
}

func (d *Dumper) encode(v any) (string, error) {
	rv := reflect.ValueOf(v)
	if omitted(rv) {
		return "", nil
	}
	var buf bytes.Buffer
	w := &walker{
		enc: jsontext.NewEncoder(&buf,
			jsontext.Multiline(true),
			jsontext.WithIndent(d.indent),
			jsontext.SpaceAfterColon(true),
			jsontext.AllowDuplicateNames(true),
			jsontext.AllowInvalidUTF8(true),
		),
		seen: make(map[identity]struct{}),
	}
	if err := w.value(rv); err != nil {
		return "", fmt.Errorf("encode %T: %w", v, err)
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func (d *Dumper) fallback(v any) string {
	cfg := spew.ConfigState{
		Indent:                  d.indent,
		DisableMethods:          true,
		DisablePointerAddresses: true,
		DisableCapacities:       true,
		SortKeys:                true,
		MaxDepth:                64,
	}
	return strings.TrimSuffix(cfg.Sdump(v), "\n")
}

func isAbsent(v any) bool {
	if v == nil || IsUndefined(v) {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// omitted reports whether v has no serialized form.
func omitted(v reflect.Value) bool {
	if v.Type() == undefinedType {
		return true
	}
	switch v.Kind() {
	case reflect.Func, reflect.Chan, reflect.Complex64, reflect.Complex128, reflect.UnsafePointer:
		return true
	}
	return false
}

// isMember reports whether v should be written as an object member.
func isMember(v reflect.Value) bool {
	for v.Kind() == reflect.Interface && !v.IsNil() {
		v = v.Elem()
	}
	return !v.IsValid() || v.Kind() == reflect.Interface || !omitted(v)
}

// identity distinguishes composites. Slices carry their length so that a
// sub-slice sharing a backing array is not mistaken for its parent.
type identity struct {
	typ reflect.Type
	ptr uintptr
	n   int
}

type walker struct {
	enc  *jsontext.Encoder
	seen map[identity]struct{}
}

// enter records v in the visited-set and reports whether it was new.
func (w *walker) enter(v reflect.Value) bool {
	id := identity{typ: v.Type(), ptr: v.Pointer()}
	if v.Kind() == reflect.Slice {
		if v.Len() == 0 {
			return true
		}
		id.n = v.Len()
	}
	if _, ok := w.seen[id]; ok {
		return false
	}
	w.seen[id] = struct{}{}
	return true
}

func (w *walker) null() error {
	return w.enc.WriteToken(jsontext.Null)
}

func (w *walker) value(v reflect.Value) error {
	for v.Kind() == reflect.Interface {
		if v.IsNil() {
			return w.null()
		}
		v = v.Elem()
	}
	if !v.IsValid() || omitted(v) {
		return w.null()
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() || !w.enter(v) {
			return w.null()
		}
	}
	if ok, err := w.delegate(v); ok {
		return err
	}

	switch v.Kind() {
	case reflect.Bool:
		return w.enc.WriteToken(jsontext.Bool(v.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return w.enc.WriteToken(jsontext.Int(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return w.enc.WriteToken(jsontext.Uint(v.Uint()))
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return w.null()
		}
		if f == 0 {
			f = 0 // -0 reads as 0
		}
		if v.Kind() == reflect.Float32 {
			return json.MarshalEncode(w.enc, float32(f))
		}
		return w.enc.WriteToken(jsontext.Float(f))
	case reflect.String:
		return w.enc.WriteToken(jsontext.String(v.String()))
	case reflect.Pointer:
		return w.value(v.Elem())
	case reflect.Map:
		return w.mapping(v)
	case reflect.Slice, reflect.Array:
		if v.Type() == documentType {
			return w.document(v)
		}
		return w.sequence(v)
	case reflect.Struct:
		return w.object(v)
	default:
		return w.null()
	}
}

// delegate renders values that know how to describe themselves. Marshaler
// failures render as null.
func (w *walker) delegate(v reflect.Value) (bool, error) {
	if !v.CanInterface() {
		return false, nil
	}
	t := v.Type()
	switch {
	case t.Implements(jsonMarshalerType), t.Implements(textMarshalerType):
		if err := json.MarshalEncode(w.enc, v.Interface()); err != nil {
			return true, w.null()
		}
		return true, nil
	case t.Implements(errorType):
		return true, w.enc.WriteToken(jsontext.String(v.Interface().(error).Error()))
	}
	return false, nil
}

func (w *walker) sequence(v reflect.Value) error {
	if err := w.enc.WriteToken(jsontext.BeginArray); err != nil {
		return err
	}
	for i := range v.Len() {
		if err := w.value(v.Index(i)); err != nil {
			return fmt.Errorf("index %d: %w", i, err)
		}
	}
	return w.enc.WriteToken(jsontext.EndArray)
}

func (w *walker) member(name string, v reflect.Value) error {
	if !isMember(v) {
		return nil
	}
	if err := w.enc.WriteToken(jsontext.String(name)); err != nil {
		return err
	}
	if err := w.value(v); err != nil {
		return fmt.Errorf("member %q: %w", name, err)
	}
	return nil
}

func (w *walker) document(v reflect.Value) error {
	if err := w.enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for i := range v.Len() {
		e := v.Index(i)
		if err := w.member(e.Field(0).String(), e.Field(1)); err != nil {
			return err
		}
	}
	return w.enc.WriteToken(jsontext.EndObject)
}

func (w *walker) mapping(v reflect.Value) error {
	type kv struct {
		key string
		val reflect.Value
	}
	entries := make([]kv, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		entries = append(entries, kv{key: mapKey(iter.Key()), val: iter.Value()})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	if err := w.enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	for _, e := range entries {
		if err := w.member(e.key, e.val); err != nil {
			return err
		}
	}
	return w.enc.WriteToken(jsontext.EndObject)
}

func mapKey(k reflect.Value) string {
	for k.Kind() == reflect.Interface && !k.IsNil() {
		k = k.Elem()
	}
	if k.CanInterface() && k.Type().Implements(textMarshalerType) {
		if b, err := k.Interface().(encoding.TextMarshaler).MarshalText(); err == nil {
			return string(b)
		}
	}
	switch k.Kind() {
	case reflect.String:
		return k.String()
	case reflect.Bool:
		return strconv.FormatBool(k.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(k.Float(), 'g', -1, 64)
	}
	if k.IsValid() && k.CanInterface() {
		return fmt.Sprint(k.Interface())
	}
	return k.String()
}

func (w *walker) object(v reflect.Value) error {
	if err := w.enc.WriteToken(jsontext.BeginObject); err != nil {
		return err
	}
	if err := w.fields(v); err != nil {
		return err
	}
	return w.enc.WriteToken(jsontext.EndObject)
}

// fields writes the exported fields of struct v, inlining untagged embedded
// structs the way encoding/json does.
func (w *walker) fields(v reflect.Value) error {
	t := v.Type()
	for i := range t.NumField() {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name, omitEmpty, ok := fieldName(sf)
		if !ok {
			continue
		}
		fv := v.Field(i)
		if sf.Anonymous && name == "" {
			inner := fv
			if inner.Kind() == reflect.Pointer {
				if inner.IsNil() || !w.enter(inner) {
					continue
				}
				inner = inner.Elem()
			}
			if inner.Kind() == reflect.Struct {
				if err := w.fields(inner); err != nil {
					return err
				}
				continue
			}
			name = sf.Name
		}
		if omitEmpty && fv.IsZero() {
			continue
		}
		if err := w.member(name, fv); err != nil {
			return err
		}
	}
	return nil
}

// fieldName resolves the member name from the json tag. An empty name is
// returned for untagged embedded fields.
func fieldName(sf reflect.StructField) (name string, omitEmpty, ok bool) {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return "", false, false
	}
	name, opts, _ := strings.Cut(tag, ",")
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	if name == "" && !sf.Anonymous {
		name = sf.Name
	}
	return name, omitEmpty, true
}
