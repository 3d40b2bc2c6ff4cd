package jsconsole

import (
	"fmt"

	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
)

// Unmarshalers returns the full set of order-preserving unmarshalers allowing
// decoding into:
//   - any/interface{} -> objects as D, arrays as A
//   - *D              -> direct ordered object decoding
//   - *A              -> direct array decoding
//
// Primitive JSON values are left to the default decoding.
func Unmarshalers() *json.Unmarshalers {
	return json.JoinUnmarshalers(
		valueUnmarshaler(),
		documentUnmarshaler(),
		collectionUnmarshaler(),
	)
}

// valueUnmarshaler wraps JSON objects as D rather than map[string]any and
// JSON arrays as A so dumps keep the source member order. Empty objects ({})
// produce an empty D; empty arrays ([]) produce an empty A.
func valueUnmarshaler() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *any) error {
		switch dec.PeekKind() {
		case '{':
			d, err := decodeObject(dec)
			if err != nil {
				return err
			}
			*v = d
			return nil
		case '[':
			arr, err := decodeArray(dec)
			if err != nil {
				return err
			}
			*v = arr
			return nil
		default:
			return json.SkipFunc
		}
	})
}

func documentUnmarshaler() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *D) error {
		if dec.PeekKind() != '{' {
			return json.SkipFunc
		}
		d, err := decodeObject(dec)
		if err != nil {
			return err
		}
		*v = d
		return nil
	})
}

func collectionUnmarshaler() *json.Unmarshalers {
	return json.UnmarshalFromFunc(func(dec *jsontext.Decoder, v *A) error {
		if dec.PeekKind() != '[' {
			return json.SkipFunc
		}
		arr, err := decodeArray(dec)
		if err != nil {
			return err
		}
		*v = arr
		return nil
	})
}

// decodeObject decodes a JSON object into a D.
func decodeObject(dec *jsontext.Decoder) (D, error) {
	if _, err := dec.ReadToken(); err != nil { // '{'
		return nil, fmt.Errorf("read object open: %w", err)
	}
	res := D{}
	for dec.PeekKind() != '}' {
		var k string
		if err := json.UnmarshalDecode(dec, &k); err != nil {
			return nil, fmt.Errorf("read object key: %w", err)
		}
		var vv any
		if err := json.UnmarshalDecode(dec, &vv); err != nil {
			return nil, fmt.Errorf("read object value for key %q: %w", k, err)
		}
		res = append(res, E{Key: k, Value: vv})
	}
	if _, err := dec.ReadToken(); err != nil { // '}'
		return nil, fmt.Errorf("read object close: %w", err)
	}
	return res, nil
}

// decodeArray decodes a JSON array into A.
func decodeArray(dec *jsontext.Decoder) (A, error) {
	if _, err := dec.ReadToken(); err != nil { // '['
		return nil, fmt.Errorf("read array open: %w", err)
	}
	arr := A{}
	for dec.PeekKind() != ']' {
		var elem any
		if err := json.UnmarshalDecode(dec, &elem); err != nil {
			return nil, fmt.Errorf("read array element: %w", err)
		}
		arr = append(arr, elem)
	}
	if _, err := dec.ReadToken(); err != nil { // ']'
		return nil, fmt.Errorf("read array close: %w", err)
	}
	return arr, nil
}

// DumpJSON decodes JSON text with Unmarshalers and renders it with Dump.
// Member order and repeated member names in data are preserved.
func DumpJSON(data []byte) (string, error) {
	return defaultDumper.DumpJSON(data)
}

// DumpJSON decodes JSON text with Unmarshalers and renders it with d.
func (d *Dumper) DumpJSON(data []byte) (string, error) {
	var v any
	err := json.Unmarshal(data, &v,
		json.WithUnmarshalers(Unmarshalers()),
		jsontext.AllowDuplicateNames(true),
	)
	if err != nil {
		return "", fmt.Errorf("decode json: %w", err)
	}
	return d.Dump(v), nil
}
