package scanner

import (
	"bufio"
	"bytes"
	"io"
)

// Scanner reads the bytes of a single multipart part from a shared buffered
// source, stopping at the part's boundary delimiter. Once the delimiter has
// been consumed the Scanner is done and keeps reporting io.EOF, leaving the
// source positioned at the first byte after the delimiter line so that a new
// Scanner can pick up the next part.
//
// A boundary delimiter is "--" followed by the boundary string, appearing at
// the very start of the stream or just after a line break. Line breaks are
// accepted as CRLF, bare CR or bare LF. Anything on the delimiter line after
// the boundary is discarded, including the final "--" marker, which is
// remembered and reported by Last.
//
// The source's buffer must be able to hold the delimiter pattern plus two
// bytes, or candidate checks would fail with ErrBufferFull. Callers size the
// bufio.Reader accordingly.
type Scanner struct {
	src     *bufio.Reader
	pattern []byte

	atStart bool
	last    bool
	done    bool
}

// New returns a Scanner that reads from src until it finds a line starting
// with "--" followed by boundary. A fresh Scanner treats the current stream
// position as the start of a line.
func New(src *bufio.Reader, boundary string) *Scanner {
	return &Scanner{
		src:     src,
		pattern: []byte("--" + boundary),
		atStart: true,
	}
}

// ReadByte returns the next body byte of the part. It returns io.EOF when
// the part's boundary delimiter has been consumed or when the source ends
// before any delimiter is seen; Terminated tells the two apart.
func (s *Scanner) ReadByte() (byte, error) {
	if s.done {
		return 0, io.EOF
	}
	b, err := s.src.ReadByte()
	if err != nil {
		return 0, err
	}
	if b == '\r' || b == '\n' || s.atStart {
		// A delimiter candidate. Peek far enough to decide without
		// consuming anything beyond the byte already read.
		w, _ := s.src.Peek(len(s.pattern) + 1)
		if skip, ok := s.matchCandidate(b, w); ok {
			if _, err := s.src.Discard(skip); err != nil {
				return 0, err
			}
			return 0, s.finishDelimiter()
		}
	}
	s.atStart = false
	return b, nil
}

// matchCandidate decides whether the byte just read begins a boundary
// delimiter. w holds the unconsumed bytes that follow it. On a match it
// returns how many of those bytes belong to the delimiter.
func (s *Scanner) matchCandidate(b byte, w []byte) (int, bool) {
	switch {
	case b == '\r':
		// The line break may be CRLF or a bare CR.
		if len(w) > 0 && w[0] == '\n' {
			if bytes.HasPrefix(w[1:], s.pattern) {
				return 1 + len(s.pattern), true
			}
			return 0, false
		}
		if bytes.HasPrefix(w, s.pattern) {
			return len(s.pattern), true
		}
	case b == '\n':
		if bytes.HasPrefix(w, s.pattern) {
			return len(s.pattern), true
		}
	default:
		// Start of stream: the byte itself is part of the candidate.
		if b == s.pattern[0] && bytes.HasPrefix(w, s.pattern[1:]) {
			return len(s.pattern) - 1, true
		}
	}
	return 0, false
}

// finishDelimiter consumes the remainder of a matched delimiter line: the
// optional "--" marking the final part, anything else up to the line break,
// and the line break itself.
func (s *Scanner) finishDelimiter() error {
	b, err := s.src.ReadByte()
	if err == nil && b == '-' {
		b, err = s.src.ReadByte()
		if err == nil && b == '-' {
			s.last = true
			b, err = s.src.ReadByte()
		}
	}
	for err == nil && b != '\r' && b != '\n' {
		b, err = s.src.ReadByte()
	}
	if err == nil && b == '\r' {
		if w, _ := s.src.Peek(1); len(w) > 0 && w[0] == '\n' {
			_, _ = s.src.Discard(1)
		}
	}
	if err != nil && err != io.EOF {
		return err
	}
	s.done = true
	return io.EOF
}

// Read fills p with body bytes. It satisfies io.Reader over ReadByte.
func (s *Scanner) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		b, err := s.ReadByte()
		if err != nil {
			if n > 0 && err == io.EOF {
				return n, nil
			}
			return n, err
		}
		p[n] = b
		n++
	}
	return n, nil
}

// Drain consumes the rest of the part. It returns nil once end of data is
// reached, whether that is the part's delimiter or the raw end of the
// source, and returns any other read error as is.
func (s *Scanner) Drain() error {
	for {
		if _, err := s.ReadByte(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

// DrainN is Drain with an upper bound on the number of reads. It is used to
// limit how much preamble is skipped before the first delimiter.
func (s *Scanner) DrainN(limit int) error {
	for i := 0; i < limit && !s.done; i++ {
		if _, err := s.ReadByte(); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
	return nil
}

// Terminated reports whether the part's boundary delimiter has been
// consumed. It stays false when the source ended before a delimiter.
func (s *Scanner) Terminated() bool {
	return s.done
}

// Last reports whether the consumed delimiter carried the closing "--"
// marker. It is only meaningful after end of data.
func (s *Scanner) Last() bool {
	return s.last
}

var (
	_ io.Reader     = &Scanner{}
	_ io.ByteReader = &Scanner{}
)
