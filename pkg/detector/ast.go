package detector

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/corvid-labs/antislop/pkg/models"
	"github.com/corvid-labs/antislop/pkg/parser"
	"github.com/corvid-labs/antislop/pkg/registry"
)

// detectAST runs the AST strategy: comment-node pattern matching, the
// two textual stub categories (run file-wide, since they describe a
// literal shape the grammar adds nothing to), and the structural
// no-op-body/statement check that only a parse tree makes possible.
func detectAST(result *parser.ParseResult, rs *registry.CompiledRuleset) []candidate {
	var candidates []candidate

	candidates = append(candidates, stubPatternMatches(result.Source, rs.StubPatterns, result.Language)...)

	for _, node := range parser.CommentNodes(result) {
		candidates = append(candidates, matchPatternsInSpan(
			result.Source, int(node.StartByte()), int(node.EndByte()), rs.CommentPatterns, result.Language,
		)...)
	}

	candidates = append(candidates, noOpStructuralMatches(result)...)

	return candidates
}

// noOpStructuralMatches flags two structural shapes the glossary calls a
// stub: a function/method body whose only statement is the language's
// idiomatic no-op form, and a function/method body that is entirely
// empty. It also checks the file's top-level body for the same
// single-statement no-op shape, since a whole file amounting to nothing
// but a placeholder statement is the degenerate case of the same pattern.
func noOpStructuralMatches(result *parser.ParseResult) []candidate {
	lang := result.Language
	if len(registry.NoOpStatementsFor(lang)) == 0 {
		return nil
	}

	var out []candidate
	insertOrder := 0

	if root := result.Tree.RootNode(); root != nil {
		if c, ok := checkSoleStatement(root, result.Source, lang, insertOrder); ok {
			out = append(out, c)
			insertOrder++
		}
	}

	for _, fn := range parser.GetFunctions(result) {
		if fn.Body == nil {
			continue
		}
		if len(nonCommentChildren(fn.Body, result.Source, lang)) == 0 {
			out = append(out, emptyFunctionCandidate(int(fn.Body.StartByte()), int(fn.Body.EndByte()), result.Source, insertOrder))
			insertOrder++
			continue
		}
		if c, ok := checkSoleStatement(fn.Body, result.Source, lang, insertOrder); ok {
			out = append(out, c)
			insertOrder++
		}
	}

	return out
}

// checkSoleStatement reports whether node's only non-comment child is a
// statement whose trimmed text is one of lang's no-op forms.
func checkSoleStatement(node *sitter.Node, source []byte, lang models.Language, insertOrder int) (candidate, bool) {
	stmts := nonCommentChildren(node, source, lang)
	if len(stmts) != 1 {
		return candidate{}, false
	}
	text := strings.TrimSpace(parser.GetNodeText(stmts[0], source))
	if !registry.IsNoOpBody(lang, text) {
		return candidate{}, false
	}
	return noOpBodyCandidate(int(stmts[0].StartByte()), int(stmts[0].EndByte()), source, insertOrder), true
}

// nonCommentChildren returns node's named children, excluding comments.
func nonCommentChildren(node *sitter.Node, source []byte, lang models.Language) []*sitter.Node {
	types := commentTypesFor(lang)
	var out []*sitter.Node
	count := int(node.NamedChildCount())
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		isComment := false
		for _, t := range types {
			if child.Type() == t {
				isComment = true
				break
			}
		}
		if !isComment {
			out = append(out, child)
		}
	}
	return out
}

// commentTypesFor mirrors parser's internal comment-node-type table; it
// is duplicated here (rather than exported from parser) since it is only
// needed to filter children during structural stub detection.
func commentTypesFor(lang models.Language) []string {
	switch lang {
	case models.LangRust, models.LangJava:
		return []string{"line_comment", "block_comment"}
	default:
		return []string{"comment"}
	}
}
