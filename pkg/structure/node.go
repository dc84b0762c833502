package structure

import "strings"

// Node is a named group in the generated scene graph. Geometry lives in
// the structure's placement list and nodes reference it by index, so the
// tree owns grouping while the registry owns member metadata.
type Node struct {
	Name       string
	Children   []*Node
	Placements []int
}

// child returns the named direct child, creating it on first use
func (n *Node) child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	c := &Node{Name: name}
	n.Children = append(n.Children, c)
	return c
}

// ensure returns the node at a slash-separated path below n, creating
// intermediate groups as needed.
func (n *Node) ensure(path string) *Node {
	node := n
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		node = node.child(part)
	}
	return node
}

// Find returns the descendant at a slash-separated path, or nil
func (n *Node) Find(path string) *Node {
	node := n
	for _, part := range strings.Split(path, "/") {
		if part == "" {
			continue
		}
		var next *Node
		for _, c := range node.Children {
			if c.Name == part {
				next = c
				break
			}
		}
		if next == nil {
			return nil
		}
		node = next
	}
	return node
}

// Walk visits the node and every descendant depth-first
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}
