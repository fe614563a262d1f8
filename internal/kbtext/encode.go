// Package kbtext reads and writes the knowledge base text format:
//
//	node := '(' '"' label '"' node node ')' | 'nil'
//
// Left child first ("yes"), then right ("no"). Inside a label `"` and `\`
// are escaped with a backslash.
package kbtext

import (
	"io"
	"strings"

	"akinator/internal/domain/tree"
)

const nilToken = "nil"

func Marshal(t *tree.Tree) string {
	var builder strings.Builder
	writeNode(&builder, t.Root())
	return builder.String()
}

func Encode(w io.Writer, t *tree.Tree) error {
	_, err := io.WriteString(w, Marshal(t))
	return err
}

func writeNode(builder *strings.Builder, node *tree.Node) {
	if node == nil {
		builder.WriteString(nilToken)
		return
	}
	builder.WriteString(`( "`)
	builder.WriteString(escapeLabel(node.Label()))
	builder.WriteString(`" `)
	writeNode(builder, node.Left())
	builder.WriteByte(' ')
	writeNode(builder, node.Right())
	builder.WriteString(" )")
}

var labelEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeLabel(label string) string {
	return labelEscaper.Replace(label)
}
