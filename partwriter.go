package multipart

import (
	"io"
	"strconv"

	"github.com/DanielN/multipart-handler/header"
)

// PartWriter writes a single part of a multipart stream. Set the header
// fields first, then write the body; the first body write commits the
// headers to the stream.
type PartWriter struct {
	ps        *partStream
	hdr       *header.Header
	committed bool
}

func newPartWriter(ps *partStream) *PartWriter {
	return &PartWriter{ps: ps, hdr: header.New()}
}

// SetHeader sets a header field of the part. Setting a field that is
// already set replaces it. Once the headers have been committed to the
// stream, SetHeader fails with ErrHeadersCommitted.
func (p *PartWriter) SetHeader(name, value string) error {
	if p.committed {
		return ErrHeadersCommitted
	}
	p.hdr.Set(name, value)
	return nil
}

// SetContentType sets the Content-Type header field of the part.
func (p *PartWriter) SetContentType(contentType string) error {
	return p.SetHeader(header.ContentType, contentType)
}

// SetContentLength sets the Content-Length header field of the part.
// Receivers of unbounded streams use it to size part buffers up front.
func (p *PartWriter) SetContentLength(n int) error {
	return p.SetHeader(header.ContentLength, strconv.Itoa(n))
}

// Commit writes the header fields and the empty line that separates them
// from the body. It is called automatically by the first Write; parts with
// headers but no body need to call it explicitly. Committing twice does
// nothing.
func (p *PartWriter) Commit() error {
	if p.committed {
		return nil
	}
	p.committed = true
	if _, err := p.hdr.WriteTo(p.ps); err != nil {
		return err
	}
	_, err := io.WriteString(p.ps, "\r\n")
	return err
}

// Write writes body data, committing the headers first if that has not
// happened yet.
func (p *PartWriter) Write(b []byte) (int, error) {
	if err := p.Commit(); err != nil {
		return 0, err
	}
	return p.ps.Write(b)
}

// Flush flushes buffered data to the underlying writer. Together with
// Close on the writer side this lets a receiver see a part as soon as it
// is complete.
func (p *PartWriter) Flush() error {
	return p.ps.Flush()
}

// Close terminates the part by writing its boundary delimiter. Headers
// that were never committed are not written; a part that should consist of
// headers only must call Commit before Close. Closing a closed part does
// nothing.
func (p *PartWriter) Close() error {
	return p.ps.Close()
}
