package document

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// The loader parses into a raw node tree first instead of unmarshalling
// straight into structs: duplicate keys and per-field coercion failures
// must surface as diagnostics, and encoding/json silently drops both.

type nodeKind int

const (
	nodeNull nodeKind = iota
	nodeBool
	nodeNumber
	nodeString
	nodeArray
	nodeObject
)

func (k nodeKind) String() string {
	switch k {
	case nodeNull:
		return "null"
	case nodeBool:
		return "bool"
	case nodeNumber:
		return "number"
	case nodeString:
		return "string"
	case nodeArray:
		return "list"
	case nodeObject:
		return "map"
	default:
		return "unknown"
	}
}

type objectField struct {
	name  string
	value *node
}

type node struct {
	kind    nodeKind
	str     string
	num     json.Number
	boolean bool
	items   []*node
	fields  []objectField
}

// lookup returns the first field with the given name.
func (n *node) lookup(name string) (*node, bool) {
	for _, f := range n.fields {
		if f.name == name {
			return f.value, true
		}
	}
	return nil, false
}

func parseTree(raw []byte) (*node, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("document is empty")
		}
		return nil, err
	}
	root, err := parseValue(dec, tok)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected content after top-level value")
	}
	return root, nil
}

func parseValue(dec *json.Decoder, tok json.Token) (*node, error) {
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return parseObject(dec)
		case '[':
			return parseArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t.String())
		}
	case string:
		return &node{kind: nodeString, str: t}, nil
	case json.Number:
		return &node{kind: nodeNumber, num: t}, nil
	case bool:
		return &node{kind: nodeBool, boolean: t}, nil
	case nil:
		return &node{kind: nodeNull}, nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func parseObject(dec *json.Decoder) (*node, error) {
	obj := &node{kind: nodeObject}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is not a string: %v", keyTok)
		}
		valTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		value, err := parseValue(dec, valTok)
		if err != nil {
			return nil, err
		}
		obj.fields = append(obj.fields, objectField{name: key, value: value})
	}
	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func parseArray(dec *json.Decoder) (*node, error) {
	arr := &node{kind: nodeArray}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		item, err := parseValue(dec, tok)
		if err != nil {
			return nil, err
		}
		arr.items = append(arr.items, item)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}
