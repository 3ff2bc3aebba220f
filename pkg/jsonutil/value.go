package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Kind int

const (
	Null Kind = iota
	Bool
	Number
	String
	Array
	Object
)

func (k Kind) String() string {
	switch k {
	case Null:
		return "null"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "invalid"
	}
}

// Node is a parsed JSON value. Objects keep their key order and numbers keep
// their literal text.
type Node struct {
	kind   Kind
	scalar string
	items  []Node
	keys   []string
	fields map[string]Node
}

func NullNode() Node             { return Node{kind: Null} }
func BoolNode(b bool) Node       { return Node{kind: Bool, scalar: fmt.Sprint(b)} }
func NumberNode(lit string) Node { return Node{kind: Number, scalar: lit} }
func StringNode(s string) Node   { return Node{kind: String, scalar: s} }
func ArrayNode(items ...Node) Node {
	return Node{kind: Array, items: items}
}

// ObjectNode builds an object from parallel key and value slices.
func ObjectNode(keys []string, values []Node) Node {
	n := Node{kind: Object, fields: make(map[string]Node, len(keys))}
	for i, k := range keys {
		if i >= len(values) {
			break
		}
		n.set(k, values[i])
	}
	return n
}

func (n Node) Kind() Kind { return n.kind }

// Items returns array elements, or nil for non-arrays.
func (n Node) Items() []Node {
	if n.kind != Array {
		return nil
	}
	return n.items
}

// Keys returns object keys in document order, or nil for non-objects.
func (n Node) Keys() []string {
	if n.kind != Object {
		return nil
	}
	return n.keys
}

// Get returns the member named key of an object.
func (n Node) Get(key string) (Node, bool) {
	if n.kind != Object {
		return Node{}, false
	}
	v, ok := n.fields[key]
	return v, ok
}

// Text renders the node as an option string: null is empty, strings are
// raw, numbers keep their literal, booleans are true/false and containers
// are compact JSON.
func (n Node) Text() string {
	switch n.kind {
	case Null:
		return ""
	case Bool, Number, String:
		return n.scalar
	default:
		var b bytes.Buffer
		n.writeJSON(&b)
		return b.String()
	}
}

func (n Node) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	n.writeJSON(&b)
	return b.Bytes(), nil
}

func (n *Node) set(key string, v Node) {
	if _, exists := n.fields[key]; !exists {
		n.keys = append(n.keys, key)
	}
	n.fields[key] = v
}

func (n Node) writeJSON(b *bytes.Buffer) {
	switch n.kind {
	case Null:
		b.WriteString("null")
	case Bool, Number:
		b.WriteString(n.scalar)
	case String:
		writeJSONString(b, n.scalar)
	case Array:
		b.WriteByte('[')
		for i, it := range n.items {
			if i > 0 {
				b.WriteByte(',')
			}
			it.writeJSON(b)
		}
		b.WriteByte(']')
	case Object:
		b.WriteByte('{')
		for i, k := range n.keys {
			if i > 0 {
				b.WriteByte(',')
			}
			writeJSONString(b, k)
			b.WriteByte(':')
			n.fields[k].writeJSON(b)
		}
		b.WriteByte('}')
	}
}

func writeJSONString(b *bytes.Buffer, s string) {
	enc := json.NewEncoder(b)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(s)
	// Encode appends a newline.
	b.Truncate(b.Len() - 1)
}

// Parse decodes a single JSON document.
func Parse(data []byte) (Node, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	n, err := decodeValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Node{}, errors.New("unexpected end of JSON input")
		}
		return Node{}, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return Node{}, errors.New("unexpected data after top-level JSON value")
	}
	return n, nil
}

func decodeValue(dec *json.Decoder) (Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return Node{}, err
	}
	switch t := tok.(type) {
	case nil:
		return NullNode(), nil
	case bool:
		return BoolNode(t), nil
	case json.Number:
		return NumberNode(t.String()), nil
	case string:
		return StringNode(t), nil
	case json.Delim:
		switch t {
		case '[':
			arr := Node{kind: Array}
			for dec.More() {
				it, err := decodeValue(dec)
				if err != nil {
					return Node{}, err
				}
				arr.items = append(arr.items, it)
			}
			if _, err := dec.Token(); err != nil {
				return Node{}, err
			}
			return arr, nil
		case '{':
			obj := Node{kind: Object, fields: map[string]Node{}}
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return Node{}, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return Node{}, fmt.Errorf("invalid object key %v", keyTok)
				}
				v, err := decodeValue(dec)
				if err != nil {
					return Node{}, err
				}
				obj.set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return Node{}, err
			}
			return obj, nil
		}
	}
	return Node{}, fmt.Errorf("unexpected JSON token %v", tok)
}

// SplitPath splits a dotted path. Trailing empty segments are dropped, so
// "a.b." addresses the same value as "a.b".
func SplitPath(path string) []string {
	parts := strings.Split(path, ".")
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// Walk follows path key by key from root. Each step must be an object that
// has the key; otherwise the value is absent and ok is false.
func Walk(root Node, path string) (Node, bool) {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return Node{}, false
	}
	cur := root
	for _, p := range parts {
		next, ok := cur.Get(p)
		if !ok {
			return Node{}, false
		}
		cur = next
	}
	return cur, true
}
