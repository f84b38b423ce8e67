package axtree

import "encoding/json"

// Node is one element of a serialized tree: its coerced attributes plus the
// nodes built from its AXChildren, stored under ChildrenKey.
type Node struct {
	Attributes map[string]AttributeValue
	Children   []*Node
}

// NewNode returns an empty node.
func NewNode() *Node {
	return &Node{Attributes: make(map[string]AttributeValue)}
}

// Set stores a coerced attribute. Nil values and the reserved children key
// are ignored.
func (n *Node) Set(name string, v AttributeValue) {
	if v == nil || name == ChildrenKey {
		return
	}
	if n.Attributes == nil {
		n.Attributes = make(map[string]AttributeValue)
	}
	n.Attributes[name] = v
}

// Get returns the attribute stored under name.
func (n *Node) Get(name string) (AttributeValue, bool) {
	v, ok := n.Attributes[name]
	return v, ok
}

// JSONValue converts the tree into plain maps and slices.
func (n *Node) JSONValue() map[string]any {
	out := make(map[string]any, len(n.Attributes)+1)
	for name, v := range n.Attributes {
		out[name] = v.jsonValue()
	}
	if len(n.Children) > 0 {
		children := make([]any, 0, len(n.Children))
		for _, child := range n.Children {
			children = append(children, child.JSONValue())
		}
		out[ChildrenKey] = children
	}
	return out
}

// MarshalJSON encodes the node with sorted keys.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.JSONValue())
}
