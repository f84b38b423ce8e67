package axtree

import (
	"bytes"
	"encoding/json"
)

// SerializationFailure is returned in place of a document that could not be
// encoded.
const SerializationFailure = `{"error": "JSON 序列化失败"}`

// Render encodes a tree as indented JSON with keys sorted at every level.
// It never fails: an unencodable tree renders as SerializationFailure.
func Render(n *Node) string {
	if n == nil {
		n = NewNode()
	}
	return RenderValue(n.JSONValue())
}

// RenderValue encodes plain Go values the way Render does. Maps must be keyed
// by strings for key order to be deterministic.
func RenderValue(v any) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return SerializationFailure
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
}
