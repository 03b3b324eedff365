// Package parser wraps tree-sitter for multi-language AST parsing and
// provides the generic tree-walking helpers the detector's AST strategy
// builds on: comment-node and function-node extraction, and source-text
// lookups by byte span.
package parser

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/bash"
	"github.com/smacker/go-tree-sitter/c"
	"github.com/smacker/go-tree-sitter/cpp"
	"github.com/smacker/go-tree-sitter/csharp"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/lua"
	"github.com/smacker/go-tree-sitter/php"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/ruby"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/corvid-labs/antislop/pkg/models"
)

// Parser wraps a tree-sitter parser instance. It is not safe for
// concurrent use; each worker goroutine creates its own.
type Parser struct {
	parser *sitter.Parser
}

// ParseResult is the parsed AST plus the metadata needed to translate
// node spans back into file positions.
type ParseResult struct {
	Tree     *sitter.Tree
	Language models.Language
	Source   []byte
	Path     string
}

// New creates a new parser instance.
func New() *Parser {
	return &Parser{parser: sitter.NewParser()}
}

// ParseFile reads path and parses it, detecting its language by
// extension. Callers that already know the language should call Parse
// directly to avoid a second classification pass.
func (p *Parser) ParseFile(path string) (*ParseResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	lang := classifyForGrammar(path)
	return p.Parse(source, lang, path)
}

// Parse parses source as lang. path is used only to disambiguate
// grammar variants that share a Language (TypeScript vs TSX); pass the
// original file path even when source was read elsewhere.
func (p *Parser) Parse(source []byte, lang models.Language, path string) (*ParseResult, error) {
	tsLang, ok := GetTreeSitterLanguage(lang, path)
	if !ok {
		return nil, fmt.Errorf("no tree-sitter grammar available for %s", lang)
	}

	p.parser.SetLanguage(tsLang)
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return &ParseResult{Tree: tree, Language: lang, Source: source, Path: path}, nil
}

// GetTreeSitterLanguage resolves the tree-sitter grammar for lang. path
// is consulted only to pick TSX over plain TypeScript for .tsx/.jsx
// files; ok is false when lang has no embedded grammar (a fallback-only
// language per the capability-set design, e.g. Haskell or Swift).
func GetTreeSitterLanguage(lang models.Language, path string) (*sitter.Language, bool) {
	ext := strings.ToLower(filepath.Ext(path))

	switch lang {
	case models.LangGo:
		return golang.GetLanguage(), true
	case models.LangRust:
		return rust.GetLanguage(), true
	case models.LangPython:
		return python.GetLanguage(), true
	case models.LangTypeScript:
		if ext == ".tsx" || ext == ".jsx" {
			return tsx.GetLanguage(), true
		}
		return typescript.GetLanguage(), true
	case models.LangJavaScript:
		if ext == ".jsx" {
			return tsx.GetLanguage(), true
		}
		return javascript.GetLanguage(), true
	case models.LangJava:
		return java.GetLanguage(), true
	case models.LangC:
		return c.GetLanguage(), true
	case models.LangCPP:
		return cpp.GetLanguage(), true
	case models.LangCSharp:
		return csharp.GetLanguage(), true
	case models.LangRuby:
		return ruby.GetLanguage(), true
	case models.LangPHP:
		return php.GetLanguage(), true
	case models.LangLua:
		return lua.GetLanguage(), true
	case models.LangShell:
		return bash.GetLanguage(), true
	default:
		return nil, false
	}
}

// classifyForGrammar is a thin extension-based classifier used only when
// ParseFile is called directly; the walker normally supplies the
// language via langdetect.Classify already.
func classifyForGrammar(path string) models.Language {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".go":
		return models.LangGo
	case ".rs":
		return models.LangRust
	case ".py", ".pyw", ".pyi":
		return models.LangPython
	case ".ts", ".tsx":
		return models.LangTypeScript
	case ".js", ".mjs", ".cjs", ".jsx":
		return models.LangJavaScript
	case ".java":
		return models.LangJava
	case ".c", ".h":
		return models.LangC
	case ".cpp", ".cc", ".cxx", ".hpp", ".hxx":
		return models.LangCPP
	case ".cs":
		return models.LangCSharp
	case ".rb":
		return models.LangRuby
	case ".php":
		return models.LangPHP
	case ".lua":
		return models.LangLua
	case ".sh", ".bash":
		return models.LangShell
	default:
		return models.LangUnknown
	}
}

// Close releases parser resources.
func (p *Parser) Close() {
	p.parser.Close()
}

// NodeVisitor visits AST nodes during a Walk; returning false prunes
// that node's subtree.
type NodeVisitor func(node *sitter.Node, source []byte) bool

// Walk performs a pre-order traversal of the tree rooted at node.
func Walk(node *sitter.Node, source []byte, visitor NodeVisitor) {
	if node == nil {
		return
	}
	if !visitor(node, source) {
		return
	}
	for i := range int(node.ChildCount()) {
		Walk(node.Child(i), source, visitor)
	}
}

// FindNodesByType returns every node of the given type in the tree
// rooted at root.
func FindNodesByType(root *sitter.Node, source []byte, nodeType string) []*sitter.Node {
	var results []*sitter.Node
	Walk(root, source, func(node *sitter.Node, _ []byte) bool {
		if node.Type() == nodeType {
			results = append(results, node)
		}
		return true
	})
	return results
}

// GetNodeText extracts node's source text, or "" if node is nil or its
// byte span is out of bounds.
func GetNodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	start, end := node.StartByte(), node.EndByte()
	if start > end || end > uint32(len(source)) {
		return ""
	}
	return string(source[start:end])
}

// commentNodeTypes lists, per language, the tree-sitter node types that
// represent a comment. Most grammars in this pack use a single "comment"
// type; a few split line/block comments.
var commentNodeTypes = map[models.Language][]string{
	models.LangGo:         {"comment"},
	models.LangRust:       {"line_comment", "block_comment"},
	models.LangPython:     {"comment"},
	models.LangTypeScript: {"comment"},
	models.LangJavaScript: {"comment"},
	models.LangJava:       {"line_comment", "block_comment"},
	models.LangC:          {"comment"},
	models.LangCPP:        {"comment"},
	models.LangCSharp:     {"comment"},
	models.LangRuby:       {"comment"},
	models.LangPHP:        {"comment"},
	models.LangLua:        {"comment"},
	models.LangShell:      {"comment"},
}

// CommentNodes returns every comment node in result's tree.
func CommentNodes(result *ParseResult) []*sitter.Node {
	types := commentNodeTypes[result.Language]
	if len(types) == 0 {
		types = []string{"comment"}
	}
	var nodes []*sitter.Node
	root := result.Tree.RootNode()
	Walk(root, result.Source, func(node *sitter.Node, _ []byte) bool {
		t := node.Type()
		for _, want := range types {
			if t == want {
				nodes = append(nodes, node)
				return false
			}
		}
		return true
	})
	return nodes
}

// FunctionNode is an extracted function/method definition.
type FunctionNode struct {
	Name      string
	StartLine uint32
	EndLine   uint32
	Body      *sitter.Node
	Node      *sitter.Node
}

// functionNodeTypes lists, per language, the AST node types that
// represent a function or method definition.
var functionNodeTypes = map[models.Language][]string{
	models.LangGo:         {"function_declaration", "method_declaration"},
	models.LangRust:       {"function_item"},
	models.LangPython:     {"function_definition"},
	models.LangTypeScript: {"function_declaration", "function", "arrow_function", "method_definition"},
	models.LangJavaScript: {"function_declaration", "function", "arrow_function", "method_definition"},
	models.LangJava:       {"method_declaration", "constructor_declaration"},
	models.LangC:          {"function_definition"},
	models.LangCPP:        {"function_definition"},
	models.LangCSharp:     {"method_declaration", "constructor_declaration"},
	models.LangRuby:       {"method", "singleton_method"},
	models.LangPHP:        {"function_definition", "method_declaration"},
}

// GetFunctions extracts every function/method definition in result's tree.
func GetFunctions(result *ParseResult) []FunctionNode {
	types := functionNodeTypes[result.Language]
	if len(types) == 0 {
		return nil
	}

	var functions []FunctionNode
	root := result.Tree.RootNode()
	Walk(root, result.Source, func(node *sitter.Node, source []byte) bool {
		for _, ft := range types {
			if node.Type() == ft {
				if fn := extractFunction(node, source, result.Language); fn != nil {
					functions = append(functions, *fn)
				}
				break
			}
		}
		return true
	})
	return functions
}

func extractFunction(node *sitter.Node, source []byte, lang models.Language) *FunctionNode {
	fn := &FunctionNode{
		StartLine: node.StartPoint().Row + 1,
		EndLine:   node.EndPoint().Row + 1,
		Node:      node,
	}

	if lang == models.LangCPP || lang == models.LangC {
		if declNode := node.ChildByFieldName("declarator"); declNode != nil {
			if nameNode := declNode.ChildByFieldName("declarator"); nameNode != nil {
				fn.Name = GetNodeText(nameNode, source)
			}
		}
	} else if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		fn.Name = GetNodeText(nameNode, source)
	}

	fn.Body = node.ChildByFieldName("body")
	if fn.Body == nil {
		fn.Body = node.ChildByFieldName("block")
	}
	if fn.Body == nil {
		// Ruby method bodies are a body_statement, not a named "body" field.
		for i := 0; i < int(node.NamedChildCount()); i++ {
			if child := node.NamedChild(i); child != nil && child.Type() == "body_statement" {
				fn.Body = child
				break
			}
		}
	}
	return fn
}
