package schemas

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/proposal-pages/internal/types"
)

// ErrInvalidPayload is returned when inbound data is not a JSON object at all.
var ErrInvalidPayload = errors.New("invalid payload")

// maxPrunePasses bounds re-validation; pruning one field never exposes more than
// one further level of errors.
const maxPrunePasses = 4

var compiledPayloadSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(payloadSchema))
})

// NormalizePayload validates raw payload JSON against the payload schema and
// returns the typed payload. Fields that fail validation are removed and
// treated as absent; null array elements are dropped. The removed fields are
// returned alongside the payload. A JSON null yields a nil payload.
func NormalizePayload(raw []byte) (*types.Payload, []FieldError, error) {
	tree, err := decodeTree(raw)
	if err != nil {
		return nil, nil, err
	}
	if tree == nil {
		return nil, nil, nil
	}
	if _, ok := tree.(map[string]any); !ok {
		return nil, nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidPayload)
	}

	schema, err := compiledPayloadSchema()
	if err != nil {
		return nil, nil, &SchemaError{Source: "payload.schema.json", Cause: err}
	}

	var pruned []FieldError
	tree = compact(tree)
	for pass := 0; pass < maxPrunePasses; pass++ {
		result, err := schema.Validate(gojsonschema.NewGoLoader(tree))
		if err != nil {
			return nil, pruned, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		if result.Valid() {
			break
		}
		for _, fe := range fieldErrors(result) {
			if fe.Field == "(root)" {
				return nil, pruned, fmt.Errorf("%w: %s", ErrInvalidPayload, fe.Message)
			}
			if prune(tree, strings.Split(fe.Field, ".")) {
				pruned = append(pruned, fe)
			}
		}
		tree = compact(tree)
	}

	clean, err := json.Marshal(tree)
	if err != nil {
		return nil, pruned, fmt.Errorf("re-encode payload: %w", err)
	}
	var payload types.Payload
	if err := json.Unmarshal(clean, &payload); err != nil {
		return nil, pruned, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return &payload, pruned, nil
}

// NormalizeMessage decodes an inbound message envelope. Messages of any type
// other than the template data type are returned without data so the caller
// can ignore them.
func NormalizeMessage(raw []byte) (*types.Message, []FieldError, error) {
	var envelope struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	msg := &types.Message{Type: envelope.Type}
	if envelope.Type != types.MessageTypeTemplateData || len(envelope.Data) == 0 {
		return msg, nil, nil
	}
	payload, pruned, err := NormalizePayload(envelope.Data)
	if err != nil {
		return nil, pruned, err
	}
	msg.Data = payload
	return msg, pruned, nil
}

// PrunedFields renders field errors as "field: message" lines.
func PrunedFields(errs []FieldError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.String()
	}
	return out
}

func decodeTree(raw []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after JSON value", ErrInvalidPayload)
	}
	return tree, nil
}

// prune removes the value at path. Array elements are nulled and dropped by
// the next compact.
func prune(tree any, path []string) bool {
	if len(path) == 0 {
		return false
	}
	cur := tree
	for _, seg := range path[:len(path)-1] {
		switch node := cur.(type) {
		case map[string]any:
			cur = node[seg]
		case []any:
			i, err := strconv.Atoi(seg)
			if err != nil || i < 0 || i >= len(node) {
				return false
			}
			cur = node[i]
		default:
			return false
		}
	}
	last := path[len(path)-1]
	switch node := cur.(type) {
	case map[string]any:
		if _, ok := node[last]; !ok {
			return false
		}
		delete(node, last)
		return true
	case []any:
		i, err := strconv.Atoi(last)
		if err != nil || i < 0 || i >= len(node) {
			return false
		}
		node[i] = nil
		return true
	}
	return false
}

// compact drops null elements from every array in the tree.
func compact(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			node[k] = compact(child)
		}
		return node
	case []any:
		out := node[:0]
		for _, child := range node {
			if child == nil {
				continue
			}
			out = append(out, compact(child))
		}
		return out
	}
	return v
}
