package golang

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c == nil || !c.HasError() && !c.IsMissing() {
			continue
		}
		if bad := firstError(c); bad != nil {
			return bad
		}
	}
	return nil
}

// statements returns the statements of a block. Newer grammars wrap them
// in a statement_list node.
func statements(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	var out []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "statement_list" {
			out = append(out, statements(c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// caseBody returns the statements after the colon of a case clause.
func caseBody(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	seenColon := false
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if !seenColon {
			seenColon = c.Type() == ":"
			continue
		}
		if !c.IsNamed() {
			continue
		}
		if c.Type() == "statement_list" {
			out = append(out, statements(c)...)
			continue
		}
		out = append(out, c)
	}
	return out
}

// caseHeader returns "case x, y:" or "default:".
func caseHeader(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == ":" {
			return collapse(string(src[n.StartByte():c.EndByte()]))
		}
	}
	return collapse(n.Content(src))
}

func isCase(n *sitter.Node) bool {
	switch n.Type() {
	case "expression_case", "type_case", "communication_case", "default_case":
		return true
	}
	return false
}

// switchHeader returns the keyword and subject of a switch or select,
// without its initializer.
func switchHeader(n *sitter.Node, src []byte) string {
	kw := n.Child(0).Type()
	start := n.StartByte() + uint32(len(kw))
	if init := n.ChildByFieldName("initializer"); init != nil {
		start = init.EndByte()
	}
	end := n.EndByte()
	for i := 0; i < int(n.ChildCount()); i++ {
		if c := n.Child(i); c.Type() == "{" {
			end = c.StartByte()
			break
		}
	}
	rest := strings.TrimSpace(string(src[start:end]))
	rest = strings.TrimSpace(strings.TrimPrefix(rest, ";"))
	return strings.TrimSpace(kw + " " + collapse(rest))
}

// forHeader returns the clause or condition of a for statement, or nil
// for an infinite loop.
func forHeader(n *sitter.Node) *sitter.Node {
	body := n.ChildByFieldName("body")
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() == "comment" || body != nil && c.StartByte() == body.StartByte() {
			continue
		}
		return c
	}
	return nil
}

// labelName returns the label of a break, continue or goto statement.
func labelName(n *sitter.Node, src []byte) string {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == "label_name" {
			return c.Content(src)
		}
	}
	return ""
}

// labeledInner returns the statement a label is attached to, or nil.
func labeledInner(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		c := n.NamedChild(i)
		if c.Type() != "label_name" && c.Type() != "comment" {
			return c
		}
	}
	return nil
}

// receiverType returns the base type name of a method receiver: "T" for
// "(t *T)" and "(l List[E])".
func receiverType(params *sitter.Node, src []byte) string {
	if params == nil {
		return ""
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p.Type() != "parameter_declaration" {
			continue
		}
		t := p.ChildByFieldName("type")
		if t == nil {
			continue
		}
		name := strings.Trim(t.Content(src), "*() ")
		if i := strings.IndexByte(name, '['); i >= 0 {
			name = name[:i]
		}
		return name
	}
	return ""
}

// collapse folds runs of whitespace, including newlines, into one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
