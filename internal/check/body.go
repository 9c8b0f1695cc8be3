package check

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/prentissw/charted-roots/internal/vault"
	"github.com/prentissw/charted-roots/internal/wikilink"
)

// checkBodies scans note bodies for wikilinks that resolve to nothing.
// The markdown is parsed so links inside fenced and indented code blocks
// are not flagged.
func checkBodies(r *Report, v *vault.Vault) {
	resolve := func(target string) bool {
		if _, ok := v.Lookup(target); ok {
			return true
		}
		if _, ok := v.LookupPlace(target); ok {
			return true
		}
		for _, e := range v.Events {
			if e.NoteName == target {
				return true
			}
		}
		return false
	}

	for _, p := range v.Persons {
		for _, target := range bodyLinks(p.Body) {
			if !resolve(target) {
				r.warnf(p.Path, "body link [[%s]] does not resolve", target)
			}
		}
	}
}

// bodyLinks extracts wikilink targets from the prose blocks of a markdown
// body. Blocks are scanned on their raw source lines: goldmark's inline
// pass splits text at '[' so matched nodes cannot be scanned one by one.
func bodyLinks(body string) []string {
	if body == "" {
		return nil
	}
	source := []byte(body)
	doc := goldmark.New().Parser().Parse(text.NewReader(source))

	var targets []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.(type) {
		case *ast.CodeBlock, *ast.FencedCodeBlock:
			return ast.WalkSkipChildren, nil
		}
		if n.Type() != ast.TypeBlock {
			return ast.WalkContinue, nil
		}
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			for _, m := range wikilink.FindAllInLine(string(seg.Value(source))) {
				targets = append(targets, m.Target)
			}
		}
		// Lines covered this block's text; children would double-count.
		if lines.Len() > 0 {
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return targets
}
