package pipeline

import (
	"bytes"
	"errors"
	"fmt"
	"mime"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrUnknownCharset is wrapped by an EncodingError when a document declares
// a charset nobody knows.
var ErrUnknownCharset = errors.New("unknown charset")

// EncodingError reports input bytes that cannot be decoded to text.
type EncodingError struct {
	Charset string
	Err     error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Charset, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// Decode turns raw document bytes into text. A charset in contentType wins,
// then a byte order mark, then a <meta> charset in the first 1024 bytes.
// Without any of those the bytes are read as UTF-8 and invalid sequences
// become U+FFFD.
func Decode(raw []byte, contentType string) (string, error) {
	if label, ok := declaredCharset(contentType); ok {
		enc, name := charset.Lookup(label)
		if enc == nil {
			return "", &EncodingError{Charset: label, Err: ErrUnknownCharset}
		}
		return decodeWith(enc, name, raw)
	}

	enc, name, certain := charset.DetermineEncoding(raw, "")
	if !certain && name == "windows-1252" && !mentionsCharset(raw) {
		// windows-1252 is the sniffer's last resort, not a declaration.
		enc, name = unicode.UTF8, "utf-8"
	}
	return decodeWith(enc, name, raw)
}

func decodeWith(enc encoding.Encoding, name string, raw []byte) (string, error) {
	if name == "utf-8" {
		enc = unicode.UTF8
	}
	out, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return "", &EncodingError{Charset: name, Err: err}
	}
	return strings.TrimPrefix(string(out), "\uFEFF"), nil
}

func declaredCharset(contentType string) (string, bool) {
	if contentType == "" {
		return "", false
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", false
	}
	label := strings.TrimSpace(params["charset"])
	return label, label != ""
}

// mentionsCharset reports whether the document head could carry a <meta>
// charset declaration.
func mentionsCharset(raw []byte) bool {
	if len(raw) > 1024 {
		raw = raw[:1024]
	}
	return bytes.Contains(bytes.ToLower(raw), []byte("charset"))
}
