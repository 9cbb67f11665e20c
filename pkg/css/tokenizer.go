package css

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

type CSSTokenType int

const (
	CSSTokenIdent  CSSTokenType = iota // color, div, -webkit-thing
	CSSTokenHash                       // #main, #fff
	CSSTokenDelim                      // { } : ; . , and any other single character
	CSSTokenNumber                     // 10, 1.5, -3, with optional unit: 10px, 50%
	CSSTokenString                     // "quoted" or 'quoted'
	CSSTokenEOF
)

func (t CSSTokenType) String() string {
	switch t {
	case CSSTokenIdent:
		return "Ident"
	case CSSTokenHash:
		return "Hash"
	case CSSTokenDelim:
		return "Delim"
	case CSSTokenNumber:
		return "Number"
	case CSSTokenString:
		return "String"
	case CSSTokenEOF:
		return "EOF"
	}
	return "Unknown"
}

type CSSToken struct {
	Type  CSSTokenType
	Value string  // ident name, hash name without '#', string contents, or the delimiter
	Num   float64 // numeric value for CSSTokenNumber
	Unit  string  // unit suffix for CSSTokenNumber ("px", "%", "" ...)
	Raw   string  // source text of the token
	// SpaceBefore records whitespace or a comment between this token and
	// the previous one. Selectors use it to tell "div.a" from "div .a".
	SpaceBefore bool
}

// IsDelim reports whether the token is the given delimiter.
func (t CSSToken) IsDelim(d string) bool {
	return t.Type == CSSTokenDelim && t.Value == d
}

// CSSTokenizer lexes stylesheet text. It never fails: characters that start
// no other token come back as single-character delimiters.
type CSSTokenizer struct {
	input string
	pos   int
}

func NewCSSTokenizer(input string) *CSSTokenizer {
	return &CSSTokenizer{
		input: input,
		pos:   0,
	}
}

func (t *CSSTokenizer) NextToken() CSSToken {
	spaced := t.skipWhitespace()
	tok := t.readToken()
	tok.SpaceBefore = spaced
	return tok
}

func (t *CSSTokenizer) readToken() CSSToken {
	if t.pos >= len(t.input) {
		return CSSToken{Type: CSSTokenEOF}
	}
	start := t.pos
	ch := t.input[t.pos]

	switch {
	case ch == '"' || ch == '\'':
		return t.readString(ch)
	case ch == '#':
		t.pos++
		name := t.readName()
		if name == "" {
			return CSSToken{Type: CSSTokenDelim, Value: "#", Raw: "#"}
		}
		return CSSToken{Type: CSSTokenHash, Value: name, Raw: t.input[start:t.pos]}
	case t.startsNumber():
		return t.readNumber()
	case t.startsIdent():
		name := t.readName()
		return CSSToken{Type: CSSTokenIdent, Value: name, Raw: name}
	}

	r, size := utf8.DecodeRuneInString(t.input[t.pos:])
	t.pos += size
	return CSSToken{Type: CSSTokenDelim, Value: string(r), Raw: string(r)}
}

func (t *CSSTokenizer) readString(quote byte) CSSToken {
	start := t.pos
	t.pos++
	var sb strings.Builder
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if c == quote {
			t.pos++
			break
		}
		if c == '\n' {
			// Unterminated string ends at the newline.
			break
		}
		if c == '\\' && t.pos+1 < len(t.input) {
			t.pos++
			c = t.input[t.pos]
		}
		sb.WriteByte(c)
		t.pos++
	}
	return CSSToken{Type: CSSTokenString, Value: sb.String(), Raw: t.input[start:t.pos]}
}

func (t *CSSTokenizer) readNumber() CSSToken {
	start := t.pos
	if c := t.input[t.pos]; c == '+' || c == '-' {
		t.pos++
	}
	seenDot := false
	for t.pos < len(t.input) {
		c := t.input[t.pos]
		if c >= '0' && c <= '9' {
			t.pos++
			continue
		}
		if c == '.' && !seenDot && t.pos+1 < len(t.input) && isDigit(t.input[t.pos+1]) {
			seenDot = true
			t.pos++
			continue
		}
		break
	}
	num, err := strconv.ParseFloat(t.input[start:t.pos], 64)
	if err != nil {
		num = 0
	}
	unit := ""
	if t.pos < len(t.input) && t.input[t.pos] == '%' {
		t.pos++
		unit = "%"
	} else if t.startsIdent() {
		unit = strings.ToLower(t.readName())
	}
	return CSSToken{Type: CSSTokenNumber, Num: num, Unit: unit, Raw: t.input[start:t.pos]}
}

func (t *CSSTokenizer) startsNumber() bool {
	p := t.pos
	if p < len(t.input) && (t.input[p] == '+' || t.input[p] == '-') {
		p++
	}
	if p < len(t.input) && isDigit(t.input[p]) {
		return true
	}
	return p+1 < len(t.input) && t.input[p] == '.' && isDigit(t.input[p+1])
}

func (t *CSSTokenizer) startsIdent() bool {
	if t.pos >= len(t.input) {
		return false
	}
	c := t.input[t.pos]
	if c == '-' {
		return t.pos+1 < len(t.input) && (isNameStart(t.input[t.pos+1]) || t.input[t.pos+1] == '-')
	}
	return isNameStart(c)
}

func (t *CSSTokenizer) readName() string {
	start := t.pos
	for t.pos < len(t.input) && isNameChar(t.input[t.pos]) {
		t.pos++
	}
	return t.input[start:t.pos]
}

// skipWhitespace skips whitespace and comments and reports whether any
// were present.
func (t *CSSTokenizer) skipWhitespace() bool {
	skipped := false
	for t.pos < len(t.input) {
		if isWhitespace(t.input[t.pos]) {
			t.pos++
		} else if t.pos+1 < len(t.input) && t.input[t.pos] == '/' && t.input[t.pos+1] == '*' {
			t.skipComment()
		} else {
			break
		}
		skipped = true
	}
	return skipped
}

// skipComment skips a /* ... */ comment. Assumes pos is at the '/'.
func (t *CSSTokenizer) skipComment() {
	end := strings.Index(t.input[t.pos+2:], "*/")
	if end < 0 {
		// Unterminated comment: skip to end
		t.pos = len(t.input)
		return
	}
	t.pos += 2 + end + 2
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isNameStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == '-'
}
