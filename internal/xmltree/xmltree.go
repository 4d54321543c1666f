// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xmltree is a small element tree with ElementPath-style lookups.
// Extraction logic works against Node and never sees the XML decoder.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrEmptyDocument is returned by Parse when the input holds no root element.
var ErrEmptyDocument = errors.New("document has no root element")

// Node is one element of the tree.
type Node struct {
	// Tag is the element's local name.
	Tag string

	// Text is the character data before the first child element, matching
	// the "text" of an ElementTree element. Tail text is not kept.
	Text string

	Attrs    map[string]string
	Children []*Node
}

// Parse decodes r into a tree and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Entity = xml.HTMLEntity

	var (
		root  *Node
		stack []*Node
		// sawChild tracks, per open element, whether a child has started;
		// character data after that point is tail text and is dropped.
		sawChild []bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: t.Name.Local}
			if len(t.Attr) > 0 {
				n.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					n.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("decoding xml: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
				sawChild[len(sawChild)-1] = true
			}
			stack = append(stack, n)
			sawChild = append(sawChild, false)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
			sawChild = sawChild[:len(sawChild)-1]
		case xml.CharData:
			if len(stack) > 0 && !sawChild[len(sawChild)-1] {
				stack[len(stack)-1].Text += string(t)
			}
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

// Walk visits n and every element below it in document order. Returning
// false from fn stops the walk.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Descendants returns every element below n (n excluded) whose tag matches,
// in document order. A tag of "*" matches any element.
func (n *Node) Descendants(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		c.Walk(func(d *Node) bool {
			if matches(d, tag) {
				out = append(out, d)
			}
			return true
		})
	}
	return out
}

// ChildrenByTag returns the direct children of n whose tag matches.
func (n *Node) ChildrenByTag(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if matches(c, tag) {
			out = append(out, c)
		}
	}
	return out
}

// FindAll evaluates a path relative to n. Paths are slash-separated tags;
// a leading ".//" selects the first step anywhere below n, otherwise each
// step selects direct children. "*" matches any tag.
//
//	n.FindAll(".//AffiliationInfo/Affiliation")
//	n.FindAll("LastName")
func (n *Node) FindAll(path string) []*Node {
	descendant := false
	switch {
	case strings.HasPrefix(path, ".//"):
		descendant = true
		path = path[3:]
	case strings.HasPrefix(path, "./"):
		path = path[2:]
	}
	if path == "" {
		return nil
	}

	steps := strings.Split(path, "/")
	var current []*Node
	if descendant {
		current = n.Descendants(steps[0])
	} else {
		current = n.ChildrenByTag(steps[0])
	}
	for _, step := range steps[1:] {
		var next []*Node
		for _, c := range current {
			next = append(next, c.ChildrenByTag(step)...)
		}
		current = next
	}
	return current
}

// Find returns the first element matching path, or nil.
func (n *Node) Find(path string) *Node {
	all := n.FindAll(path)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// FindText returns the text of the first element matching path, or def when
// nothing matches. A matching element with no text yields "".
func (n *Node) FindText(path, def string) string {
	if e := n.Find(path); e != nil {
		return e.Text
	}
	return def
}

func matches(n *Node, tag string) bool {
	return tag == "*" || n.Tag == tag
}
