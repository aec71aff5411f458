package multipart

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/DanielN/multipart-handler/param"
)

// DefaultSubtype is the multipart subtype NewWriter uses unless WithSubtype
// overrides it.
const DefaultSubtype = "mixed"

// Errors that occur while producing a multipart stream.
var (
	// ErrWriterClosed is returned when a part is requested from a Writer
	// that has already been closed.
	ErrWriterClosed = errors.New("multipart writer is closed")

	// ErrAfterFinalPart is returned when a part is requested after
	// CreateFinalPart has been called.
	ErrAfterFinalPart = errors.New("can't start another part after the final one")

	// ErrPartClosed is returned when writing to or flushing a part whose
	// terminating boundary delimiter has already been written.
	ErrPartClosed = errors.New("part is closed")

	// ErrHeadersCommitted is returned when setting a header field on a part
	// whose headers have already been written to the stream.
	ErrHeadersCommitted = errors.New("headers already written")
)

type writerOpts struct {
	subtype  string
	boundary string
	bufSize  int
}

// WriterOption refers to options that may be passed to NewWriter to modify
// how the writer works.
type WriterOption func(*writerOpts)

// WithSubtype is a WriterOption that sets the multipart subtype, e.g.
// "x-mixed-replace". The default is DefaultSubtype.
func WithSubtype(subtype string) WriterOption {
	return func(o *writerOpts) { o.subtype = subtype }
}

// WithBoundary is a WriterOption that sets the boundary instead of having
// NewWriter generate a random one. NewWriter fails with ErrInvalidBoundary
// if the boundary is not acceptable.
func WithBoundary(boundary string) WriterOption {
	return func(o *writerOpts) { o.boundary = boundary }
}

// WithWriteBuffer is a WriterOption that buffers writes to the underlying
// writer with a buffer of the given size. Parts flush the buffer when they
// are flushed or closed.
func WithWriteBuffer(n int) WriterOption {
	return func(o *writerOpts) { o.bufSize = n }
}

// Writer produces a multipart stream part by part.
//
// Parts are written strictly in order: starting a new part closes the
// previous one by writing its terminating boundary delimiter. Closing the
// writer terminates the stream with the final delimiter.
type Writer struct {
	raw      io.Writer
	w        io.Writer
	subtype  string
	boundary string
	cur      *partStream
}

// NewWriter returns a Writer that writes a multipart stream to w. Pass the
// value of ContentType to the receiving side, e.g. as the Content-Type
// header of the enclosing message or HTTP response.
func NewWriter(w io.Writer, opts ...WriterOption) (*Writer, error) {
	o := writerOpts{subtype: DefaultSubtype}
	for _, opt := range opts {
		opt(&o)
	}

	boundary := o.boundary
	if boundary == "" {
		var err error
		boundary, err = GenerateBoundary()
		if err != nil {
			return nil, err
		}
	} else if err := validateBoundary(boundary); err != nil {
		return nil, err
	}

	sink := w
	if o.bufSize > 0 {
		sink = bufio.NewWriterSize(w, o.bufSize)
	}

	return &Writer{
		raw:      w,
		w:        sink,
		subtype:  o.subtype,
		boundary: boundary,
		// Part zero carries no headers or data. Closing it when the first
		// real part starts emits the first boundary delimiter.
		cur: &partStream{w: sink, boundary: boundary},
	}, nil
}

// ContentType returns the content type of the multipart stream, including
// the boundary parameter.
func (w *Writer) ContentType() string {
	return fmt.Sprintf("%s/%s;boundary=%q", param.Type, w.subtype, w.boundary)
}

// Subtype returns the multipart subtype of the stream.
func (w *Writer) Subtype() string {
	return w.subtype
}

// Boundary returns the boundary that separates the parts of the stream.
func (w *Writer) Boundary() string {
	return w.boundary
}

// CreatePart starts the next part of the stream. The previous part, if
// any, is closed by writing its terminating boundary delimiter.
func (w *Writer) CreatePart() (*PartWriter, error) {
	return w.createPart(false)
}

// CreateFinalPart starts the last part of the stream. It behaves like
// CreatePart, but marks the part as final: when it is closed its delimiter
// is the final one and no further parts can be started.
//
// Use this for unbounded streams, e.g. multipart/x-mixed-replace, where
// each part should reach the receiver as soon as it is complete. Bounded
// streams can rely on Close instead.
func (w *Writer) CreateFinalPart() (*PartWriter, error) {
	return w.createPart(true)
}

func (w *Writer) createPart(last bool) (*PartWriter, error) {
	if w.cur == nil {
		return nil, ErrWriterClosed
	}
	if w.cur.last {
		return nil, ErrAfterFinalPart
	}
	if err := w.cur.Close(); err != nil {
		return nil, err
	}
	w.cur = &partStream{w: w.w, boundary: w.boundary, last: last}
	return newPartWriter(w.cur), nil
}

// Close terminates the stream by writing the final boundary delimiter and
// closes the underlying writer if it is an io.Closer. Closing a closed
// Writer does nothing.
//
// A part that was already closed explicitly is left alone, so the final
// delimiter is only written if the current part was still open.
func (w *Writer) Close() error {
	if w.cur == nil {
		return nil
	}
	w.cur.last = true
	if err := w.cur.Close(); err != nil {
		return err
	}
	w.cur = nil
	if c, ok := w.raw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// partStream frames a single part. Writes pass through to the sink until
// Close writes the boundary delimiter that terminates the part.
type partStream struct {
	w        io.Writer
	boundary string
	last     bool
	closed   bool
}

func (p *partStream) Write(b []byte) (int, error) {
	if p.closed {
		return 0, ErrPartClosed
	}
	return p.w.Write(b)
}

func (p *partStream) Flush() error {
	if p.closed {
		return ErrPartClosed
	}
	return flush(p.w)
}

// Close writes the boundary delimiter terminating the part and flushes the
// sink. Closing a closed part does nothing.
func (p *partStream) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	marker := ""
	if p.last {
		marker = "--"
	}
	if _, err := fmt.Fprintf(p.w, "\r\n--%s%s\r\n", p.boundary, marker); err != nil {
		return err
	}
	return flush(p.w)
}

// flush flushes w if it is buffered.
func flush(w io.Writer) error {
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
