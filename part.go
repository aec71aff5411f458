package multipart

import (
	"github.com/DanielN/multipart-handler/header"
	"github.com/DanielN/multipart-handler/internal/scanner"
)

// Part is a single part of a multipart stream. It gives access to the part
// headers and the part body.
//
// Reading the body ends with io.EOF at the boundary delimiter that
// terminates the part. When the stream is truncated instead, the body also
// ends with io.EOF; the enclosing Reader reports no further parts in that
// case.
type Part struct {
	sc  *scanner.Scanner
	hdr *header.Header
	err error
}

func newPart(sc *scanner.Scanner) *Part {
	return &Part{sc: sc}
}

// Header returns the headers of the part. On the first call the headers
// are parsed from the stream; later calls return the same result. A part
// without headers starts with an empty line and yields an empty set.
func (p *Part) Header() (*header.Header, error) {
	if p.hdr == nil && p.err == nil {
		p.hdr, p.err = header.Parse(p.sc)
	}
	return p.hdr, p.err
}

// Read reads the body of the part. If the headers have not been parsed yet
// they are parsed and consumed first, so Read always starts at the body.
func (p *Part) Read(b []byte) (int, error) {
	if _, err := p.Header(); err != nil {
		return 0, err
	}
	return p.sc.Read(b)
}
