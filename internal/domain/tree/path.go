package tree

import "strings"

// Trait is one step of a decision path: the question asked and the
// answer that leads towards the object.
type Trait struct {
	Question string `json:"question"`
	Yes      bool   `json:"yes"`
}

// Comparison splits two objects' traits into the part they share and the
// parts where they diverge.
type Comparison struct {
	Shared []Trait `json:"shared"`
	First  []Trait `json:"first"`
	Second []Trait `json:"second"`
}

// PathToRoot collects n and all its ancestors, root last.
func PathToRoot(n *Node) []*Node {
	var path []*Node
	for cur := n; cur != nil; cur = cur.parent {
		path = append(path, cur)
	}
	return path
}

// DecisionPath is PathToRoot reversed: root first, n last.
func DecisionPath(n *Node) []*Node {
	path := PathToRoot(n)
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Traits returns the answers given on the way from the root to n.
func Traits(n *Node) []Trait {
	return traitsOf(DecisionPath(n))
}

func traitsOf(path []*Node) []Trait {
	if len(path) < 2 {
		return nil
	}
	traits := make([]Trait, 0, len(path)-1)
	for i := 0; i+1 < len(path); i++ {
		parent, child := path[i], path[i+1]
		traits = append(traits, Trait{Question: parent.label, Yes: parent.left == child})
	}
	return traits
}

// LongestCommonPrefix compares nodes by identity, not by label.
func LongestCommonPrefix(a, b []*Node) int {
	k := 0
	for k < len(a) && k < len(b) && a[k] == b[k] {
		k++
	}
	return k
}

func Compare(a, b *Node) Comparison {
	pathA, pathB := DecisionPath(a), DecisionPath(b)
	traitsA, traitsB := traitsOf(pathA), traitsOf(pathB)

	// k common nodes share k-1 edges
	shared := LongestCommonPrefix(pathA, pathB) - 1
	if shared < 0 {
		shared = 0
	}

	return Comparison{
		Shared: traitsA[:shared],
		First:  traitsA[shared:],
		Second: traitsB[shared:],
	}
}

// FindLeaf looks up an object by name, ignoring case. Question nodes never
// match. With duplicate names the first leaf in pre-order wins.
func (t *Tree) FindLeaf(name string) (*Node, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false
	}
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if n.IsLeaf() && strings.EqualFold(n.label, name) {
			found = n
			return false
		}
		return true
	})
	return found, found != nil
}

// Sentence renders the trait as a statement about the object.
func (t Trait) Sentence() string {
	if t.Yes {
		return t.Question
	}
	return "не " + t.Question
}
