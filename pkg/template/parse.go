package template

import (
	"regexp"
	"strings"
)

type tokenKind int

const (
	tokenText tokenKind = iota
	tokenIf
	tokenFor
	tokenEndif
	tokenEndfor
)

type token struct {
	kind tokenKind
	// expr holds the literal text for text tokens and the trimmed tag
	// expression for if/for tokens.
	expr string
}

var tagRe = regexp.MustCompile(`\{%\s*(if|for|endif|endfor)\b([^%]*)%\}`)

// tokenize splits template source into text runs and block tags. Anything
// that does not match a block tag, including malformed tags, passes through
// as literal text.
func tokenize(src string) []token {
	var tokens []token
	last := 0
	for _, m := range tagRe.FindAllStringSubmatchIndex(src, -1) {
		if m[0] > last {
			tokens = append(tokens, token{kind: tokenText, expr: src[last:m[0]]})
		}
		expr := strings.TrimSpace(src[m[4]:m[5]])
		switch src[m[2]:m[3]] {
		case "if":
			tokens = append(tokens, token{kind: tokenIf, expr: expr})
		case "for":
			tokens = append(tokens, token{kind: tokenFor, expr: expr})
		case "endif":
			tokens = append(tokens, token{kind: tokenEndif})
		case "endfor":
			tokens = append(tokens, token{kind: tokenEndfor})
		}
		last = m[1]
	}
	if last < len(src) {
		tokens = append(tokens, token{kind: tokenText, expr: src[last:]})
	}
	return tokens
}

type node interface{ isNode() }

type textNode struct {
	text string
}

type ifNode struct {
	cond     string
	children []node
}

type forNode struct {
	// expr is the raw "item in items" expression; it is split at render
	// time, and an expression without " in " renders nothing.
	expr     string
	children []node
}

func (textNode) isNode() {}
func (ifNode) isNode()   {}
func (forNode) isNode()  {}

// parse builds a node tree from the token stream.
//
// Block closers are lenient: any endif or endfor closes the innermost open
// block regardless of its kind, and unclosed blocks extend to the end of
// the template. Parsing never fails.
func parse(tokens []token) []node {
	nodes, _ := parseBlock(tokens, 0)
	return nodes
}

func parseBlock(tokens []token, i int) ([]node, int) {
	var nodes []node
	for i < len(tokens) {
		t := tokens[i]
		switch t.kind {
		case tokenText:
			nodes = append(nodes, textNode{text: t.expr})
			i++
		case tokenIf:
			var children []node
			children, i = parseBlock(tokens, i+1)
			nodes = append(nodes, ifNode{cond: t.expr, children: children})
		case tokenFor:
			var children []node
			children, i = parseBlock(tokens, i+1)
			nodes = append(nodes, forNode{expr: t.expr, children: children})
		case tokenEndif, tokenEndfor:
			return nodes, i + 1
		}
	}
	return nodes, i
}
