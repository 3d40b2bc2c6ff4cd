package jsconsole

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type node struct {
	Name string
	Next *node
}

type Base struct {
	Kind string
}

type derived struct {
	Base
	Name string
}

type tagged struct {
	ID     int    `json:"id"`
	Skip   string `json:"-"`
	Empty  string `json:"empty,omitempty"`
	Plain  bool
	Fn     func()
	hidden int
}

// maxIndent returns the deepest nesting level found in a dump.
func maxIndent(s string) int {
	deepest := 0
	for _, line := range strings.Split(s, "\n") {
		n := len(line) - len(strings.TrimLeft(line, " "))
		deepest = max(deepest, n/DefaultIndent)
	}
	return deepest
}

func TestDump(t *testing.T) {
	t.Run("absent values dump empty", func(t *testing.T) {
		var nilMap map[string]any
		var nilArray A
		var nilPtr *node
		var nilErr error
		for _, v := range []any{nil, nilMap, nilArray, nilPtr, nilErr, Undefined} {
			assert.Equal(t, "", Dump(v), "%#v", v)
		}
	})

	t.Run("non serializable top level dumps empty", func(t *testing.T) {
		assert.Equal(t, "", Dump(func() {}))
		assert.Equal(t, "", Dump(make(chan int)))
	})

	t.Run("scalars", func(t *testing.T) {
		tests := []struct {
			in   any
			want string
		}{
			{0, "0"},
			{false, "false"},
			{true, "true"},
			{"", `""`},
			{"hi", `"hi"`},
			{1.5, "1.5"},
			{uint8(7), "7"},
			{int64(-3), "-3"},
			{math.NaN(), "null"},
			{math.Inf(1), "null"},
			{float32(0.1), "0.1"},
			{float32(-2.5), "-2.5"},
			{math.Copysign(0, -1), "0"},
			{float32(math.Copysign(0, -1)), "0"},
		}
		for _, tt := range tests {
			assert.Equal(t, tt.want, Dump(tt.in), "%#v", tt.in)
		}
	})

	t.Run("empty composites", func(t *testing.T) {
		assert.Equal(t, "{}", Dump(D{}))
		assert.Equal(t, "[]", Dump(A{}))
		assert.Equal(t, "{}", Dump(map[string]any{}))
	})

	t.Run("nested document and array", func(t *testing.T) {
		v := D{
			{Key: "a", Value: 1},
			{Key: "b", Value: A{true, nil, "x"}},
		}
		want := "{\n" +
			"    \"a\": 1,\n" +
			"    \"b\": [\n" +
			"        true,\n" +
			"        null,\n" +
			"        \"x\"\n" +
			"    ]\n" +
			"}"
		assert.Equal(t, want, Dump(v))
	})

	t.Run("document keeps entry order", func(t *testing.T) {
		v := D{{Key: "z", Value: 1}, {Key: "a", Value: 2}}
		assert.Equal(t, "{\n    \"z\": 1,\n    \"a\": 2\n}", Dump(v))
	})

	t.Run("map keys are sorted", func(t *testing.T) {
		assert.Equal(t, "{\n    \"a\": 1,\n    \"b\": 2\n}", Dump(map[string]int{"b": 2, "a": 1}))
		assert.Equal(t, "{\n    \"10\": \"x\",\n    \"2\": \"y\"\n}", Dump(map[int]string{2: "y", 10: "x"}))
	})

	t.Run("nesting depth follows the value", func(t *testing.T) {
		v := D{{Key: "l1", Value: D{{Key: "l2", Value: A{D{{Key: "l4", Value: 1}}}}}}}
		assert.Equal(t, 4, maxIndent(Dump(v)))
	})

	t.Run("self referencing map", func(t *testing.T) {
		m := map[string]any{"name": "a"}
		m["self"] = m
		assert.Equal(t, "{\n    \"name\": \"a\",\n    \"self\": null\n}", Dump(m))
	})

	t.Run("self referencing document", func(t *testing.T) {
		d := D{{Key: "self"}}
		d[0].Value = d
		assert.Equal(t, "{\n    \"self\": null\n}", Dump(d))
	})

	t.Run("mutually referencing maps", func(t *testing.T) {
		a := map[string]any{}
		b := map[string]any{"a": a}
		a["b"] = b
		assert.Equal(t, "{\n    \"b\": {\n        \"a\": null\n    }\n}", Dump(a))
	})

	t.Run("pointer cycle", func(t *testing.T) {
		n := &node{Name: "a"}
		n.Next = n
		assert.Equal(t, "{\n    \"Name\": \"a\",\n    \"Next\": null\n}", Dump(n))
	})

	t.Run("shared sibling collapses to null", func(t *testing.T) {
		x := D{{Key: "k", Value: 1}}
		want := "[\n" +
			"    {\n" +
			"        \"k\": 1\n" +
			"    },\n" +
			"    null\n" +
			"]"
		assert.Equal(t, want, Dump(A{x, x}))
	})

	t.Run("sub slice is a different composite", func(t *testing.T) {
		x := A{1, 2}
		assert.Equal(t, "[\n    [\n        1,\n        2\n    ],\n    [\n        1\n    ]\n]", Dump(A{x, x[:1]}))
	})

	t.Run("visited set is per call", func(t *testing.T) {
		m := map[string]any{"k": 1}
		first := Dump(m)
		assert.Equal(t, first, Dump(m))
		assert.Equal(t, "{\n    \"k\": 1\n}", first)
	})

	t.Run("struct fields follow json tags", func(t *testing.T) {
		v := tagged{ID: 7, Skip: "no", Fn: func() {}, hidden: 1}
		assert.Equal(t, "{\n    \"id\": 7,\n    \"Plain\": false\n}", Dump(v))
	})

	t.Run("embedded struct is inlined", func(t *testing.T) {
		v := derived{Base: Base{Kind: "k"}, Name: "n"}
		assert.Equal(t, "{\n    \"Kind\": \"k\",\n    \"Name\": \"n\"\n}", Dump(v))
	})

	t.Run("undefined members are omitted", func(t *testing.T) {
		v := D{{Key: "a", Value: Undefined}, {Key: "b", Value: 1}, {Key: "c", Value: func() {}}}
		assert.Equal(t, "{\n    \"b\": 1\n}", Dump(v))
	})

	t.Run("undefined elements render null", func(t *testing.T) {
		assert.Equal(t, "[\n    null,\n    null\n]", Dump(A{Undefined, func() {}}))
	})

	t.Run("marshalers describe themselves", func(t *testing.T) {
		ts := time.Date(2023, 10, 1, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, `"2023-10-01T12:00:00Z"`, Dump(ts))
	})

	t.Run("errors render their message", func(t *testing.T) {
		assert.Equal(t, `"boom"`, Dump(errors.New("boom")))
	})

	t.Run("fixed size arrays", func(t *testing.T) {
		assert.Equal(t, "[\n    1,\n    2\n]", Dump([2]int{1, 2}))
	})

	t.Run("very deep nesting does not panic", func(t *testing.T) {
		var v any = 1
		for range 20000 {
			v = A{v}
		}
		var out string
		require.NotPanics(t, func() { out = Dump(v) })
		assert.NotEmpty(t, out)
	})

	t.Run("custom indent", func(t *testing.T) {
		d := NewDumper(WithIndent(2))
		assert.Equal(t, "{\n  \"a\": [\n    1\n  ]\n}", d.Dump(D{{Key: "a", Value: A{1}}}))
	})

	t.Run("zero-size pointers share an address", func(t *testing.T) {
		type empty struct{}
		assert.Equal(t, "[\n    {},\n    null\n]", Dump(A{&empty{}, &empty{}}))
	})
}
