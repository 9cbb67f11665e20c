package html

import (
	"strings"
	"unicode/utf8"
)

type TokenType int

const (
	TokenStartTag TokenType = iota
	TokenEndTag
	TokenCharacter
	TokenEOF
)

func (t TokenType) String() string {
	switch t {
	case TokenStartTag:
		return "StartTag"
	case TokenEndTag:
		return "EndTag"
	case TokenCharacter:
		return "Character"
	case TokenEOF:
		return "EOF"
	}
	return "Unknown"
}

type Token struct {
	Type        TokenType
	TagName     string
	Attributes  map[string]string
	Char        rune
	SelfClosing bool // True for tags ending with />
}

// Tokenizer lexes HTML source into tags and single characters. It never
// fails: anything that does not look like markup comes back as character
// data, including a '<' that is not followed by a tag name.
type Tokenizer struct {
	input string
	pos   int
}

func NewTokenizer(html string) *Tokenizer {
	return &Tokenizer{input: html, pos: 0}
}

func (t *Tokenizer) NextToken() Token {
	for t.pos < len(t.input) {
		if t.input[t.pos] != '<' {
			return t.readCharacter()
		}
		if t.skipMarkupDeclaration() {
			continue
		}
		if tok, ok := t.readTag(); ok {
			return tok
		}
		// Not markup; the '<' is literal text.
		t.pos++
		return Token{Type: TokenCharacter, Char: '<'}
	}
	return Token{Type: TokenEOF}
}

func (t *Tokenizer) readCharacter() Token {
	r, size := utf8.DecodeRuneInString(t.input[t.pos:])
	t.pos += size
	return Token{Type: TokenCharacter, Char: r}
}

// skipMarkupDeclaration consumes <!-- comments -->, <!DOCTYPE ...> and
// <?processing instructions?>. Unterminated constructs run to end of input.
func (t *Tokenizer) skipMarkupDeclaration() bool {
	rest := t.input[t.pos:]
	switch {
	case strings.HasPrefix(rest, "<!--"):
		end := strings.Index(rest[4:], "-->")
		if end < 0 {
			t.pos = len(t.input)
		} else {
			t.pos += 4 + end + 3
		}
		return true
	case strings.HasPrefix(rest, "<!"), strings.HasPrefix(rest, "<?"):
		end := strings.IndexByte(rest, '>')
		if end < 0 {
			t.pos = len(t.input)
		} else {
			t.pos += end + 1
		}
		return true
	}
	return false
}

// readTag attempts to read a start or end tag at the current '<'. It leaves
// the position untouched and returns false if no tag name follows.
func (t *Tokenizer) readTag() (Token, bool) {
	p := t.pos + 1
	isEndTag := false
	if p < len(t.input) && t.input[p] == '/' {
		isEndTag = true
		p++
	}
	if p >= len(t.input) || !isASCIILetter(t.input[p]) {
		return Token{}, false
	}
	t.pos = p
	tagName := t.readTagName()
	if isEndTag {
		t.skipPast('>')
		return Token{Type: TokenEndTag, TagName: tagName}, true
	}

	attributes := make(map[string]string)
	for {
		t.skipWhitespace()
		if t.pos >= len(t.input) {
			break
		}
		c := t.input[t.pos]
		if c == '>' {
			t.pos++
			break
		}
		if c == '/' {
			t.pos++
			t.skipWhitespace()
			if t.pos < len(t.input) && t.input[t.pos] == '>' {
				t.pos++
				return Token{Type: TokenStartTag, TagName: tagName, Attributes: attributes, SelfClosing: true}, true
			}
			continue
		}
		name, value, ok := t.readAttribute()
		if !ok {
			// Stray byte inside the tag; drop it.
			t.pos++
			continue
		}
		if _, dup := attributes[name]; !dup {
			attributes[name] = value
		}
	}
	return Token{Type: TokenStartTag, TagName: tagName, Attributes: attributes}, true
}

func (t *Tokenizer) readTagName() string {
	start := t.pos
	for t.pos < len(t.input) && isTagNameChar(t.input[t.pos]) {
		t.pos++
	}
	return strings.ToLower(t.input[start:t.pos])
}

func (t *Tokenizer) readAttribute() (string, string, bool) {
	start := t.pos
	for t.pos < len(t.input) && isAttributeNameChar(t.input[t.pos]) {
		t.pos++
	}
	name := strings.ToLower(t.input[start:t.pos])
	if name == "" {
		return "", "", false
	}
	t.skipWhitespace()
	if t.pos >= len(t.input) || t.input[t.pos] != '=' {
		return name, "", true
	}
	t.pos++
	t.skipWhitespace()
	return name, t.readAttributeValue(), true
}

func (t *Tokenizer) readAttributeValue() string {
	if t.pos >= len(t.input) {
		return ""
	}
	quote := t.input[t.pos]
	if quote == '"' || quote == '\'' {
		t.pos++
		start := t.pos
		end := strings.IndexByte(t.input[start:], quote)
		if end < 0 {
			t.pos = len(t.input)
			return t.input[start:]
		}
		t.pos = start + end + 1
		return t.input[start : start+end]
	}
	start := t.pos
	for t.pos < len(t.input) && !isSpace(t.input[t.pos]) && t.input[t.pos] != '>' {
		t.pos++
	}
	return t.input[start:t.pos]
}

func (t *Tokenizer) skipWhitespace() {
	for t.pos < len(t.input) && isSpace(t.input[t.pos]) {
		t.pos++
	}
}

// skipPast advances beyond the next target byte, or to end of input.
func (t *Tokenizer) skipPast(target byte) {
	end := strings.IndexByte(t.input[t.pos:], target)
	if end < 0 {
		t.pos = len(t.input)
		return
	}
	t.pos += end + 1
}

// ReadRawUntil reads raw content until the closing end tag is found (e.g., </script>).
// This is used for raw text elements like <script> and <style> where '<' does not
// start a new tag.
func (t *Tokenizer) ReadRawUntil(endTag string) string {
	needle := "</" + strings.ToLower(endTag)
	start := t.pos
	for t.pos+len(needle) <= len(t.input) {
		if strings.EqualFold(t.input[t.pos:t.pos+len(needle)], needle) {
			content := t.input[start:t.pos]
			t.pos += len(needle)
			t.skipPast('>')
			return content
		}
		t.pos++
	}
	// No closing tag found: consume everything remaining
	content := t.input[start:]
	t.pos = len(t.input)
	return content
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

func isTagNameChar(c byte) bool {
	return isASCIILetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isAttributeNameChar(c byte) bool {
	return isTagNameChar(c) || c == ':' || c == '.'
}
