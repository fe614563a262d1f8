package tree

// Node is a vertex of the decision tree. A leaf holds an object name,
// a question node holds a yes/no question and always has both children:
// left is taken on "yes", right on "no".
//
// parent is an observer reference. It is only ever written together with
// the child pointer of the node that owns this one.
type Node struct {
	label  string
	left   *Node
	right  *Node
	parent *Node
}

func NewLeaf(label string) *Node {
	return &Node{label: label}
}

// NewQuestion builds a question node over two existing detached subtrees
// and links their parent references to it.
func NewQuestion(label string, yes, no *Node) *Node {
	q := &Node{label: label, left: yes, right: no}
	if yes != nil {
		yes.parent = q
	}
	if no != nil {
		no.parent = q
	}
	return q
}

func (n *Node) Label() string { return n.label }

// Left returns the "yes" branch.
func (n *Node) Left() *Node { return n.left }

// Right returns the "no" branch.
func (n *Node) Right() *Node { return n.right }

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) IsLeaf() bool {
	return n.left == nil && n.right == nil
}

func (n *Node) IsRoot() bool {
	return n.parent == nil
}

// Next returns the child chosen by the answer to this node's question.
func (n *Node) Next(yes bool) *Node {
	if yes {
		return n.left
	}
	return n.right
}

// replaceChild swaps old for repl in whichever slot holds old.
func (n *Node) replaceChild(old, repl *Node) bool {
	switch old {
	case n.left:
		n.left = repl
	case n.right:
		n.right = repl
	default:
		return false
	}
	return true
}
