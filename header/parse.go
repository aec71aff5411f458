package header

import (
	"io"
	"strings"
)

// byteSource feeds Parse one byte at a time, folding the end of the stream
// into the -1 sentinel the state machine runs on. A read error other than
// io.EOF is held and reported once parsing stops.
type byteSource struct {
	r   io.ByteReader
	err error
}

func (s *byteSource) next() int {
	if s.err != nil {
		return -1
	}
	b, err := s.r.ReadByte()
	if err != nil {
		if err != io.EOF {
			s.err = err
		}
		return -1
	}
	return int(b)
}

// Parse reads a header block from r, consuming it up to and including the
// blank line that terminates it, and returns the parsed fields. The bytes
// that follow, the part body, are left unread.
//
// Each field is a name, a colon and a value. Names are folded to lower
// case and looked up case-insensitively; when a name repeats, the last
// occurrence wins. Values are trimmed of surrounding whitespace and inner
// tabs are normalized to spaces. A line beginning with a space or tab
// continues the previous field's value, contributing a single space.
// Lines end with CRLF, bare LF or bare CR.
//
// A block whose first byte is already a line break has no headers. When
// that break is a bare CR, the byte inspected for the LF that should
// follow is consumed even when it is something else; callers relying on
// the first body byte after a CR-delimited empty header block must account
// for that.
//
// If the stream ends mid line, the unterminated field is dropped. A read
// failure is returned as is and the partial header is discarded.
func Parse(r io.ByteReader) (*Header, error) {
	src := &byteSource{r: r}
	h := New()

	c := src.next()
	if c == '\r' || c == '\n' {
		if c == '\r' {
			src.next()
		}
		if src.err != nil {
			return nil, src.err
		}
		return h, nil
	}

	var sb strings.Builder
	var key string
	haveKey := false
	inKey := true
mainloop:
	for c >= 0 {
		switch c {
		case ':':
			if inKey {
				key = strings.ToLower(sb.String())
				haveKey = true
				sb.Reset()
				inKey = false
			} else {
				sb.WriteByte(byte(c))
			}
		case '\t', ' ':
			sb.WriteByte(' ')
		case '\r', '\n':
			// Look ahead past the line break: whitespace means a folded
			// continuation, another break ends the block, anything else
			// starts the next field.
			pc := c
			c = src.next()
			if pc == '\r' && c == '\n' {
				c = src.next()
				if c == '\r' {
					c = src.next()
				}
			}
			if c == ' ' || c == '\t' {
				sb.WriteByte(' ')
			} else {
				if haveKey {
					h.Set(key, strings.TrimSpace(sb.String()))
				}
				sb.Reset()
				if c == '\r' || c == '\n' {
					break mainloop
				}
				inKey = true
				if c >= 0 {
					sb.WriteByte(byte(c))
				}
			}
		default:
			sb.WriteByte(byte(c))
		}
		c = src.next()
	}
	if src.err != nil {
		return nil, src.err
	}
	return h, nil
}
