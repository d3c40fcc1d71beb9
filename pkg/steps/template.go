package steps

import (
	"strings"
	"text/template"
	"text/template/parse"

	"github.com/Masterminds/sprig/v3"
	"github.com/pkg/errors"
)

// TemplateData is the data available to command argument templates.
type TemplateData struct {
	Root string // absolute collection root
	Step string
	File string // current file when the step fans out over files
}

func renderArgs(name string, args []string, data TemplateData) ([]string, error) {
	rendered := make([]string, 0, len(args))
	for i, arg := range args {
		if !strings.Contains(arg, "{{") {
			rendered = append(rendered, arg)
			continue
		}

		tmpl, err := template.New(name).
			Funcs(sprig.TxtFuncMap()).
			Option("missingkey=error").
			Parse(arg)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing argument %d", i)
		}

		var b strings.Builder
		if err := tmpl.Execute(&b, data); err != nil {
			return nil, errors.Wrapf(err, "executing argument %d", i)
		}
		rendered = append(rendered, b.String())
	}
	return rendered, nil
}

// referencesFile reports whether any argument template uses .File or $.File.
func referencesFile(args []string) bool {
	for _, arg := range args {
		if !strings.Contains(arg, "{{") {
			continue
		}
		tmpl, err := template.New("arg").Funcs(sprig.TxtFuncMap()).Parse(arg)
		if err != nil {
			continue
		}
		if nodeReferencesFile(tmpl.Tree.Root) {
			return true
		}
	}
	return false
}

func nodeReferencesFile(node parse.Node) bool {
	switch n := node.(type) {
	case *parse.ListNode:
		if n == nil {
			return false
		}
		for _, child := range n.Nodes {
			if nodeReferencesFile(child) {
				return true
			}
		}
	case *parse.ActionNode:
		return nodeReferencesFile(n.Pipe)
	case *parse.PipeNode:
		if n == nil {
			return false
		}
		for _, cmd := range n.Cmds {
			if nodeReferencesFile(cmd) {
				return true
			}
		}
	case *parse.CommandNode:
		for _, arg := range n.Args {
			if nodeReferencesFile(arg) {
				return true
			}
		}
	case *parse.FieldNode:
		return len(n.Ident) > 0 && n.Ident[0] == "File"
	case *parse.VariableNode:
		return len(n.Ident) > 1 && n.Ident[0] == "$" && n.Ident[1] == "File"
	case *parse.ChainNode:
		return nodeReferencesFile(n.Node)
	case *parse.IfNode:
		return branchReferencesFile(&n.BranchNode)
	case *parse.RangeNode:
		return branchReferencesFile(&n.BranchNode)
	case *parse.WithNode:
		return branchReferencesFile(&n.BranchNode)
	case *parse.TemplateNode:
		return nodeReferencesFile(n.Pipe)
	}
	return false
}

func branchReferencesFile(b *parse.BranchNode) bool {
	return nodeReferencesFile(b.Pipe) || nodeReferencesFile(b.List) || nodeReferencesFile(b.ElseList)
}
