package kbtext

import (
	"fmt"
	"strings"

	"akinator/internal/domain/tree"
	appErrors "akinator/internal/errors"
)

// SyntaxError describes where the text stopped matching the grammar.
type SyntaxError struct {
	Offset int
	Reason string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: offset %d: %s", appErrors.ErrCorruptKnowledgeBase, e.Offset, e.Reason)
}

func (e *SyntaxError) Unwrap() error {
	return appErrors.ErrCorruptKnowledgeBase
}

// MaxDepth bounds nesting so a hostile file fails to parse instead of
// exhausting the stack.
const MaxDepth = 10000

// parser state lives for one Unmarshal call only
type parser struct {
	src   string
	pos   int
	depth int
}

// Unmarshal parses a whole knowledge base. Partial trees are never
// returned: any error yields a nil tree.
func Unmarshal(text string) (*tree.Tree, error) {
	p := &parser{src: text}

	root, err := p.node()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, p.fail("knowledge base is empty")
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.fail("unexpected text after the root node")
	}

	t, err := tree.FromRoot(root)
	if err != nil {
		return nil, &SyntaxError{Offset: p.pos, Reason: err.Error()}
	}
	return t, nil
}

func (p *parser) node() (*tree.Node, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.fail("unexpected end of input, want '(' or nil")
	}

	if strings.HasPrefix(p.src[p.pos:], nilToken) {
		p.pos += len(nilToken)
		return nil, nil
	}
	if p.src[p.pos] != '(' {
		return nil, p.fail(fmt.Sprintf("unexpected %q, want '(' or nil", p.src[p.pos]))
	}
	if p.depth >= MaxDepth {
		return nil, p.fail(fmt.Sprintf("nesting deeper than %d", MaxDepth))
	}
	p.depth++
	defer func() { p.depth-- }()
	p.pos++

	label, err := p.label()
	if err != nil {
		return nil, err
	}
	start := p.pos

	yes, err := p.node()
	if err != nil {
		return nil, err
	}
	no, err := p.node()
	if err != nil {
		return nil, err
	}
	if (yes == nil) != (no == nil) {
		return nil, &SyntaxError{Offset: start, Reason: fmt.Sprintf("question %q has only one answer", label)}
	}

	p.skipSpace()
	if p.eof() || p.src[p.pos] != ')' {
		return nil, p.fail("missing ')'")
	}
	p.pos++

	if yes == nil {
		return tree.NewLeaf(label), nil
	}
	return tree.NewQuestion(label, yes, no), nil
}

// label reads a quoted string, honouring backslash escapes.
func (p *parser) label() (string, error) {
	p.skipSpace()
	if p.eof() || p.src[p.pos] != '"' {
		return "", p.fail("want quoted label")
	}
	p.pos++

	var b strings.Builder
	for !p.eof() {
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '\\':
			if p.pos+1 >= len(p.src) {
				return "", p.fail("dangling escape in label")
			}
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.fail("unterminated label")
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *parser) fail(reason string) error {
	return &SyntaxError{Offset: p.pos, Reason: reason}
}
