package css

import (
	"strings"
)

// Parser is an LL(1) parser over the CSS tokenizer:
//
//	stylesheet      := rule*
//	rule            := selector-list '{' declaration* '}'
//	selector-list   := simple-selector (',' simple-selector)*
//	simple-selector := [ident | '*'] ['#' ident] ('.' ident)*
//	declaration     := ident ':' value ';'
//
// A malformed rule is dropped as a unit and parsing resumes after its
// closing brace; one bad rule never costs the rest of the sheet.
type Parser struct {
	tokenizer *CSSTokenizer
	current   CSSToken
}

func NewParser(input string) *Parser {
	p := &Parser{tokenizer: NewCSSTokenizer(input)}
	p.step()
	return p
}

func (p *Parser) step() {
	p.current = p.tokenizer.NextToken()
}

func (p *Parser) atEOF() bool {
	return p.current.Type == CSSTokenEOF
}

// Parse parses stylesheet text. It never fails.
func Parse(css string) *Stylesheet {
	return NewParser(css).ParseStylesheet()
}

func (p *Parser) ParseStylesheet() *Stylesheet {
	sheet := &Stylesheet{Rules: make([]Rule, 0)}
	for !p.atEOF() {
		switch {
		case p.current.IsDelim("@"):
			p.skipAtRule()
		case p.current.IsDelim("}"), p.current.IsDelim(";"):
			// Stray closer between rules.
			p.step()
		default:
			if rule, ok := p.parseRule(); ok {
				sheet.Rules = append(sheet.Rules, rule)
			}
		}
	}
	return sheet
}

func (p *Parser) parseRule() (Rule, bool) {
	selectors, ok := p.parseSelectorList()
	if !ok {
		p.skipToBlock()
		p.skipBlock()
		return Rule{}, false
	}
	// parseSelectorList stops on '{'.
	p.step()
	declarations, ok := p.parseDeclarationBlock()
	if !ok {
		p.skipBlockBody()
		return Rule{}, false
	}
	return Rule{Selectors: selectors, Declarations: declarations}, true
}

func (p *Parser) parseSelectorList() ([]Selector, bool) {
	selectors := make([]Selector, 0, 1)
	for {
		sel, ok := p.parseSimpleSelector()
		if !ok {
			return nil, false
		}
		selectors = append(selectors, sel)
		switch {
		case p.current.IsDelim(","):
			p.step()
		case p.current.IsDelim("{"):
			return selectors, true
		default:
			return nil, false
		}
	}
}

func (p *Parser) parseSimpleSelector() (Selector, bool) {
	var sel Selector
	matched := false
	// Components after the first must be glued to it; whitespace would be a
	// descendant combinator, which is not supported.
	glued := func() bool { return !matched || !p.current.SpaceBefore }

	switch {
	case p.current.Type == CSSTokenIdent:
		sel.Tag = strings.ToLower(p.current.Value)
		matched = true
		p.step()
	case p.current.IsDelim("*"):
		matched = true
		p.step()
	}

	if p.current.Type == CSSTokenHash && glued() {
		sel.ID = p.current.Value
		matched = true
		p.step()
	}

	for p.current.IsDelim(".") && glued() {
		p.step()
		if p.current.Type != CSSTokenIdent || p.current.SpaceBefore {
			return Selector{}, false
		}
		sel.Classes = appendUnique(sel.Classes, p.current.Value)
		matched = true
		p.step()
	}
	return sel, matched
}

func appendUnique(list []string, s string) []string {
	for _, existing := range list {
		if existing == s {
			return list
		}
	}
	return append(list, s)
}

// parseDeclarationBlock parses declarations up to and including the
// closing '}'. On failure the closing brace has not been consumed.
func (p *Parser) parseDeclarationBlock() ([]Declaration, bool) {
	declarations := make([]Declaration, 0)
	for {
		switch {
		case p.current.IsDelim("}"):
			p.step()
			return declarations, true
		case p.atEOF():
			// Unclosed block at end of input; keep what was parsed.
			return declarations, true
		case p.current.IsDelim(";"):
			p.step()
		default:
			decl, ok := p.parseDeclaration()
			if !ok {
				return nil, false
			}
			declarations = append(declarations, decl)
		}
	}
}

func (p *Parser) parseDeclaration() (Declaration, bool) {
	if p.current.Type != CSSTokenIdent {
		return Declaration{}, false
	}
	property := strings.ToLower(p.current.Value)
	p.step()
	if !p.current.IsDelim(":") {
		return Declaration{}, false
	}
	p.step()
	value, ok := p.parseValue()
	if !ok {
		return Declaration{}, false
	}
	if p.current.IsDelim(";") {
		p.step()
	}
	return Declaration{Property: property, Value: value}, true
}

// parseValue reads value components until ';' or '}'. Components keep
// their source text and are separated by one space wherever the source had
// whitespace.
func (p *Parser) parseValue() (string, bool) {
	var sb strings.Builder
	count := 0
	for !p.current.IsDelim(";") && !p.current.IsDelim("}") && !p.atEOF() {
		tok := p.current
		var text string
		switch {
		case tok.Type == CSSTokenIdent:
			text = tok.Raw
			p.step()
			if p.current.IsDelim("(") && !p.current.SpaceBefore {
				args, ok := p.parseFunctionArgs()
				if !ok {
					return "", false
				}
				text += args
			}
		case tok.Type == CSSTokenHash, tok.Type == CSSTokenNumber, tok.Type == CSSTokenString:
			text = tok.Raw
			p.step()
		case tok.IsDelim(","), tok.IsDelim("/"):
			text = tok.Value
			p.step()
		default:
			return "", false
		}
		if count > 0 && tok.SpaceBefore {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
		count++
	}
	if count == 0 {
		return "", false
	}
	return sb.String(), true
}

// parseFunctionArgs reads "(a, b, c)" after a function name such as rgb.
func (p *Parser) parseFunctionArgs() (string, bool) {
	var sb strings.Builder
	sb.WriteByte('(')
	p.step()
	first := true
	for !p.current.IsDelim(")") {
		tok := p.current
		switch {
		case tok.Type == CSSTokenNumber, tok.Type == CSSTokenIdent,
			tok.Type == CSSTokenHash, tok.Type == CSSTokenString:
		case tok.IsDelim(","), tok.IsDelim("/"):
		default:
			return "", false
		}
		if !first && tok.SpaceBefore {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.Raw)
		first = false
		p.step()
	}
	p.step()
	sb.WriteByte(')')
	return sb.String(), true
}

// ParseDeclarations parses the body of a style attribute. Malformed
// declarations are skipped up to the next ';'.
func ParseDeclarations(input string) []Declaration {
	p := NewParser(input)
	declarations := make([]Declaration, 0)
	for !p.atEOF() {
		if p.current.IsDelim(";") {
			p.step()
			continue
		}
		decl, ok := p.parseDeclaration()
		if ok {
			declarations = append(declarations, decl)
			continue
		}
		for !p.atEOF() && !p.current.IsDelim(";") {
			p.step()
		}
	}
	return declarations
}

// skipToBlock discards tokens up to the next '{' at the current level.
func (p *Parser) skipToBlock() {
	for !p.atEOF() && !p.current.IsDelim("{") {
		p.step()
	}
}

// skipBlock discards a balanced {...} block starting at the current '{'.
func (p *Parser) skipBlock() {
	if !p.current.IsDelim("{") {
		return
	}
	p.step()
	p.skipBlockBody()
}

// skipBlockBody discards tokens through the '}' closing the block we are
// inside, honoring nested blocks.
func (p *Parser) skipBlockBody() {
	depth := 1
	for !p.atEOF() {
		switch {
		case p.current.IsDelim("{"):
			depth++
		case p.current.IsDelim("}"):
			depth--
			if depth == 0 {
				p.step()
				return
			}
		}
		p.step()
	}
}

// skipAtRule discards an at-rule: its prelude and either a terminating ';'
// or its whole block.
func (p *Parser) skipAtRule() {
	p.step()
	for !p.atEOF() {
		if p.current.IsDelim(";") {
			p.step()
			return
		}
		if p.current.IsDelim("{") {
			p.skipBlock()
			return
		}
		p.step()
	}
}
