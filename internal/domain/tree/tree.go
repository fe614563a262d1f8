package tree

import (
	"fmt"
	"strings"

	appErrors "akinator/internal/errors"
)

// DefaultRootLabel is used for a fresh tree that has nothing learned yet.
const DefaultRootLabel = "неизвестно что"

type Tree struct {
	root *Node
}

type Stats struct {
	Nodes     int `json:"nodes"`
	Leaves    int `json:"leaves"`
	Questions int `json:"questions"`
	Depth     int `json:"depth"`
}

// New returns a tree whose root is a single leaf.
func New(rootLabel string) *Tree {
	if strings.TrimSpace(rootLabel) == "" {
		rootLabel = DefaultRootLabel
	}
	return &Tree{root: NewLeaf(rootLabel)}
}

// FromRoot takes ownership of root and checks the structural invariants.
func FromRoot(root *Node) (*Tree, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: empty tree", appErrors.ErrBrokenTree)
	}
	if root.parent != nil {
		return nil, fmt.Errorf("%w: root %q has a parent", appErrors.ErrBrokenTree, root.label)
	}
	t := &Tree{root: root}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tree) Root() *Node { return t.root }

// Walk visits nodes in pre-order, left (yes) before right (no).
// Returning false from fn stops the walk.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	if t == nil || t.root == nil {
		return
	}
	walk(t.root, 0, fn)
}

func walk(n *Node, depth int, fn func(*Node, int) bool) bool {
	if n == nil {
		return true
	}
	if !fn(n, depth) {
		return false
	}
	if !walk(n.left, depth+1, fn) {
		return false
	}
	return walk(n.right, depth+1, fn)
}

func (t *Tree) Leaves() []*Node {
	var leaves []*Node
	t.Walk(func(n *Node, _ int) bool {
		if n.IsLeaf() {
			leaves = append(leaves, n)
		}
		return true
	})
	return leaves
}

func (t *Tree) Stats() Stats {
	var s Stats
	t.Walk(func(n *Node, depth int) bool {
		s.Nodes++
		if n.IsLeaf() {
			s.Leaves++
		} else {
			s.Questions++
		}
		if depth > s.Depth {
			s.Depth = depth
		}
		return true
	})
	return s
}

// Validate checks parent back-references and that no node has a single child.
func (t *Tree) Validate() error {
	if t.root == nil {
		return fmt.Errorf("%w: tree has no root", appErrors.ErrBrokenTree)
	}
	var err error
	t.Walk(func(n *Node, _ int) bool {
		if (n.left == nil) != (n.right == nil) {
			err = fmt.Errorf("%w: %q has exactly one answer", appErrors.ErrBrokenTree, n.label)
			return false
		}
		for _, child := range []*Node{n.left, n.right} {
			if child != nil && child.parent != n {
				err = fmt.Errorf("%w: %q does not point back to %q", appErrors.ErrBrokenTree, child.label, n.label)
				return false
			}
		}
		return true
	})
	return err
}

// Contains reports whether n belongs to this tree.
func (t *Tree) Contains(n *Node) bool {
	for cur := n; cur != nil; cur = cur.parent {
		if cur == t.root {
			return true
		}
	}
	return false
}

// SplitLeaf replaces leaf with a new question node whose children are the
// old leaf and a new leaf named object. yesForObject says on which branch
// the new object goes. The new question node is returned.
func (t *Tree) SplitLeaf(leaf *Node, question, object string, yesForObject bool) (*Node, error) {
	question = strings.TrimSpace(question)
	object = strings.TrimSpace(object)
	if question == "" || object == "" {
		return nil, fmt.Errorf("%w: question and object must not be empty", appErrors.ErrInvalidLabel)
	}
	if leaf == nil || !leaf.IsLeaf() {
		return nil, fmt.Errorf("%w: only a leaf can be split", appErrors.ErrBrokenTree)
	}
	if !t.Contains(leaf) {
		return nil, fmt.Errorf("%w: leaf %q is not part of this tree", appErrors.ErrBrokenTree, leaf.label)
	}

	parent := leaf.parent
	obj := NewLeaf(object)
	q := &Node{label: question, parent: parent}
	if yesForObject {
		q.left, q.right = obj, leaf
	} else {
		q.left, q.right = leaf, obj
	}
	obj.parent = q

	if leaf.IsRoot() {
		t.root = q
	} else if !parent.replaceChild(leaf, q) {
		return nil, fmt.Errorf("%w: %q is not a child of %q", appErrors.ErrBrokenTree, leaf.label, parent.label)
	}
	leaf.parent = q

	return q, nil
}

// Release tears the tree down in post-order, handing every label to cleanup
// before its node is detached. The tree is unusable afterwards; a second
// call is a no-op.
func (t *Tree) Release(cleanup func(label string)) {
	root := t.root
	t.root = nil
	release(root, cleanup)
}

func release(n *Node, cleanup func(string)) {
	if n == nil {
		return
	}
	release(n.left, cleanup)
	release(n.right, cleanup)
	if cleanup != nil {
		cleanup(n.label)
	}
	n.left, n.right, n.parent = nil, nil, nil
}
