package ingest

import (
	"encoding/xml"
	"io"
	"strings"
)

// node is a lightweight element tree used to walk DTE envelopes without
// committing to a rigid schema. Extraction helpers search it the way the
// envelopes are actually produced in the wild: fields may sit at varying
// depths depending on the emitting software, so lookups descend the whole
// subtree and take the first hit in document order.
type node struct {
	space    string
	local    string
	text     string
	children []*node
}

// parseTree decodes an XML document into a node tree. Character data is
// accumulated per element; attributes are not needed for DTE extraction.
func parseTree(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	var root *node
	var stack []*node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{space: t.Name.Space, local: t.Name.Local}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].text += string(t)
			}
		}
	}
	if root == nil {
		return nil, io.ErrUnexpectedEOF
	}
	return root, nil
}

// findFirst returns the first descendant (document order, the node itself
// included) in the given namespace with the given local name.
func (n *node) findFirst(space, local string) *node {
	if n.local == local && (space == "" || n.space == space) {
		return n
	}
	for _, c := range n.children {
		if m := c.findFirst(space, local); m != nil {
			return m
		}
	}
	return nil
}

// findAll collects every matching descendant in document order.
func (n *node) findAll(space, local string) []*node {
	var out []*node
	if n.local == local && (space == "" || n.space == space) {
		out = append(out, n)
	}
	for _, c := range n.children {
		out = append(out, c.findAll(space, local)...)
	}
	return out
}

// textOf returns the trimmed text of the first matching descendant of n,
// or "" when the element is missing.
func (n *node) textOf(space, local string) string {
	if n == nil {
		return ""
	}
	m := n.findFirst(space, local)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m.text)
}

// firstTextOf tries each local name in order and returns the first
// non-blank value — the fallback chain used for fields that appear under
// alternate names across emitters.
func (n *node) firstTextOf(space string, locals ...string) string {
	for _, l := range locals {
		if v := n.textOf(space, l); v != "" {
			return v
		}
	}
	return ""
}
