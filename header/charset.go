package header

import (
	"fmt"
	"io"
	"mime"

	_ "golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// wordDecoder handles RFC 2047 encoded words. Charsets beyond the built-in
// UTF-8 and US-ASCII are looked up by their MIME name in the IANA registry.
var wordDecoder = &mime.WordDecoder{CharsetReader: charsetReader}

func charsetReader(charset string, input io.Reader) (io.Reader, error) {
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("unsupported charset: %s", charset)
	}
	return e.NewDecoder().Reader(input), nil
}

// GetDecoded returns the value of the named field with any RFC 2047
// encoded words decoded to UTF-8. Use it for display; the raw value from
// Get is what belongs back on the wire.
func (h *Header) GetDecoded(name string) (string, error) {
	v, err := h.Get(name)
	if err != nil {
		return "", err
	}
	return wordDecoder.DecodeHeader(v)
}
