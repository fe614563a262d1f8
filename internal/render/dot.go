package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"akinator/internal/domain/tree"
)

// WriteDot writes a graphviz description of t: one record per node, a
// "Да" edge to the left child and a "Нет" edge to the right one.
func WriteDot(w io.Writer, t *tree.Tree) error {
	var b strings.Builder
	b.WriteString("digraph {\n\tsplines=line;\n\tnode [shape=plaintext];\n")

	ids := make(map[*tree.Node]int)
	t.Walk(func(n *tree.Node, _ int) bool {
		ids[n] = len(ids)
		return true
	})

	t.Walk(func(n *tree.Node, _ int) bool {
		writeDotNode(&b, ids[n], n)
		if !n.IsLeaf() {
			fmt.Fprintf(&b, "\tnode_%d:left -> node_%d [label=\"Да\"];\n", ids[n], ids[n.Left()])
			fmt.Fprintf(&b, "\tnode_%d:right -> node_%d [label=\"Нет\"];\n", ids[n], ids[n.Right()])
		}
		return true
	})

	b.WriteString("}\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func writeDotNode(b *strings.Builder, id int, n *tree.Node) {
	label := html.EscapeString(n.Label())
	if n.IsLeaf() {
		fmt.Fprintf(b, "\tnode_%d [label=<<TABLE BORDER=\"1\" CELLBORDER=\"0\" CELLSPACING=\"0\" BGCOLOR=\"#d8f5a2\">"+
			"<TR><TD><B>%s</B></TD></TR></TABLE>>];\n", id, label)
		return
	}
	fmt.Fprintf(b, "\tnode_%d [label=<<TABLE BORDER=\"1\" CELLBORDER=\"1\" CELLSPACING=\"0\" BGCOLOR=\"#f8f9fa\" COLOR=\"#343a40\">"+
		"<TR><TD COLSPAN=\"2\" BGCOLOR=\"#4c6ef5\"><FONT COLOR=\"white\"><B>%s?</B></FONT></TD></TR>"+
		"<TR><TD PORT=\"left\" BGCOLOR=\"#d8f5a2\"><B>Да</B></TD><TD PORT=\"right\" BGCOLOR=\"#f5a8a8\"><B>Нет</B></TD></TR>"+
		"</TABLE>>];\n", id, label)
}
