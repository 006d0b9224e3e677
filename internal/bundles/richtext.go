package bundles

import (
	"encoding/json"
	"strings"
)

// RichTextNode is either a TextNode or a ContainerNode.
type RichTextNode interface {
	richTextNode()
}

// TextNode is a leaf carrying text.
type TextNode struct {
	Value string
}

// ContainerNode groups child nodes (root, paragraph, list, link, ...).
type ContainerNode struct {
	Type     string
	Children []RichTextNode
}

func (TextNode) richTextNode()      {}
func (ContainerNode) richTextNode() {}

type rawNode struct {
	Type     string            `json:"type"`
	Value    json.RawMessage   `json:"value"`
	Children []json.RawMessage `json:"children"`
}

// ParseRichText decodes a rich-text JSON document. Only invalid JSON or a
// non-object root is an error; unusable children are skipped.
func ParseRichText(raw string) (RichTextNode, error) {
	var n rawNode
	if err := json.Unmarshal([]byte(raw), &n); err != nil {
		return nil, err
	}
	return buildNode(n), nil
}

func buildNode(n rawNode) RichTextNode {
	if n.Type == "text" {
		var value string
		// A non-string value carries no text.
		_ = json.Unmarshal(n.Value, &value)
		return TextNode{Value: value}
	}
	container := ContainerNode{Type: n.Type, Children: make([]RichTextNode, 0, len(n.Children))}
	for _, data := range n.Children {
		var child rawNode
		if err := json.Unmarshal(data, &child); err != nil {
			continue
		}
		container.Children = append(container.Children, buildNode(child))
	}
	return container
}

// PlainText flattens a node depth-first, joining leaf values with single
// spaces and collapsing whitespace.
func PlainText(node RichTextNode) string {
	var parts []string
	collectText(node, &parts)
	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}

func collectText(node RichTextNode, parts *[]string) {
	switch n := node.(type) {
	case TextNode:
		*parts = append(*parts, n.Value)
	case ContainerNode:
		for _, child := range n.Children {
			collectText(child, parts)
		}
	}
}

// RichTextToPlain converts a rich-text JSON value to plain text. Malformed
// input is returned unchanged.
func RichTextToPlain(raw string) string {
	node, err := ParseRichText(raw)
	if err != nil {
		return raw
	}
	return PlainText(node)
}
