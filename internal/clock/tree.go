package clock

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// jsonObject is an object node that keeps its keys in document order so the
// nested search visits candidates the way the server wrote them.
type jsonObject struct {
	keys   []string
	values []any
}

func (o *jsonObject) len() int {
	return len(o.keys)
}

// get returns the last value whose key normalizes to name, so duplicate
// keys resolve the same way field decoding does.
func (o *jsonObject) get(name string) (any, bool) {
	want := normalizeKey(name)
	for i := len(o.keys) - 1; i >= 0; i-- {
		if normalizeKey(o.keys[i]) == want {
			return o.values[i], true
		}
	}
	return nil, false
}

// statusShaped reports whether at least one key names a status field.
func (o *jsonObject) statusShaped() bool {
	for _, key := range o.keys {
		if _, ok := LookupField(key); ok {
			return true
		}
	}
	return false
}

// parseTree decodes raw into a tree of *jsonObject, []any, string,
// json.Number, bool and nil.
func parseTree(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	root, err := readValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		if err == nil {
			err = errors.New("unexpected data after top-level value")
		}
		return nil, err
	}
	return root, nil
}

func readValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil
	}

	switch delim {
	case '{':
		obj := &jsonObject{}
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return nil, err
			}
			key, ok := keyTok.(string)
			if !ok {
				return nil, fmt.Errorf("object key is %T", keyTok)
			}
			value, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			obj.keys = append(obj.keys, key)
			obj.values = append(obj.values, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return obj, nil
	case '[':
		items := []any{}
		for dec.More() {
			value, err := readValue(dec)
			if err != nil {
				return nil, err
			}
			items = append(items, value)
		}
		if _, err := dec.Token(); err != nil {
			return nil, err
		}
		return items, nil
	}
	return nil, fmt.Errorf("unexpected delimiter %q", rune(delim))
}
