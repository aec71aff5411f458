package multipart

import (
	"bufio"
	"errors"
	"io"

	"github.com/DanielN/multipart-handler/internal/scanner"
	"github.com/DanielN/multipart-handler/param"
)

// Constants related to NewReader() options.
const (
	// DefaultPreambleLimit is the default number of preamble bytes NewReader
	// will skip while looking for the first boundary delimiter.
	DefaultPreambleLimit = 2000

	// DefaultBufferSize is the default size of the read buffer. It leaves
	// plenty of headroom for boundary candidate checks, which need the
	// buffer to hold the delimiter pattern plus two bytes.
	DefaultBufferSize = 4096
)

// Errors that occur while setting up or reading a multipart stream.
var (
	// ErrNoBoundary is returned by NewReader when the content type carries
	// no boundary parameter or an empty one.
	ErrNoBoundary = errors.New("no or empty boundary specified in the content type")

	// ErrNoFirstBoundary is returned by NewReader when the first boundary
	// delimiter cannot be found within the preamble limit.
	ErrNoFirstBoundary = errors.New("can't find first part boundary")
)

type readerOpts struct {
	preambleLimit int
	bufferSize    int
}

// ReaderOption refers to options that may be passed to NewReader to modify
// how the reader works.
type ReaderOption func(*readerOpts)

// WithPreambleLimit is a ReaderOption that sets how many bytes of preamble
// NewReader is willing to skip before the first boundary delimiter. Streams
// whose delimiter appears later than this fail with ErrNoFirstBoundary. The
// default is DefaultPreambleLimit.
func WithPreambleLimit(n int) ReaderOption {
	return func(o *readerOpts) { o.preambleLimit = n }
}

// WithBufferSize is a ReaderOption that sets the size of the read buffer.
// Sizes too small to hold a boundary candidate are raised to the minimum
// that can. The default is DefaultBufferSize.
func WithBufferSize(n int) ReaderOption {
	return func(o *readerOpts) { o.bufferSize = n }
}

// Reader reads a multipart stream part by part.
//
// Parts are handed out one at a time by NextPart and share the underlying
// stream: asking for the next part drains whatever is left of the current
// one, so a caller must read all the data it needs from a part before
// moving on.
type Reader struct {
	src      *bufio.Reader
	pv       *param.Value
	boundary string

	cur  *scanner.Scanner
	done bool
}

// NewReader returns a Reader for a multipart stream. The content type must
// be a multipart MIME type with a boundary parameter, typically taken from
// the Content-Type header of the enclosing message or HTTP response.
//
// Some producers wrongly include the leading dashes in the boundary
// parameter; those are stripped. Anything before the first boundary
// delimiter is preamble and is discarded, up to the configured limit.
func NewReader(r io.Reader, contentType string, opts ...ReaderOption) (*Reader, error) {
	o := readerOpts{
		preambleLimit: DefaultPreambleLimit,
		bufferSize:    DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	pv, err := param.Parse(contentType)
	if err != nil {
		return nil, err
	}
	boundary := pv.Boundary()
	if boundary == "" {
		return nil, ErrNoBoundary
	}
	if len(boundary) >= 2 && boundary[:2] == "--" {
		boundary = boundary[2:]
	}

	size := o.bufferSize
	if min := len(boundary) + 8; size < min {
		size = min
	}
	src := bufio.NewReaderSize(&stickyErrorReader{r: r}, size)

	// Part zero: everything before the first delimiter is preamble.
	sc := scanner.New(src, boundary)
	if err := sc.DrainN(o.preambleLimit); err != nil {
		return nil, err
	}
	// If a delimiter was found within the limit this read reports EOF.
	if _, err := sc.ReadByte(); err == nil {
		return nil, ErrNoFirstBoundary
	} else if err != io.EOF {
		return nil, err
	}

	return &Reader{
		src:      src,
		pv:       pv,
		boundary: boundary,
		cur:      sc,
		done:     !sc.Terminated() || sc.Last(),
	}, nil
}

// Subtype returns the multipart subtype, e.g. "mixed" or
// "x-mixed-replace".
func (r *Reader) Subtype() string {
	return r.pv.Subtype()
}

// Parameter returns the value of a content type parameter, e.g.
// "boundary", or an empty string if it is not present.
func (r *Reader) Parameter(key string) string {
	return r.pv.Parameter(key)
}

// Boundary returns the boundary the reader scans for. It may differ from
// Parameter("boundary") when the parameter wrongly included the leading
// dashes.
func (r *Reader) Boundary() string {
	return r.boundary
}

// NextPart returns the next part of the stream. Any unread data of the
// current part is discarded first.
//
// Once the final boundary delimiter has been seen, or the stream ends
// without one, NextPart returns io.EOF and keeps returning it.
func (r *Reader) NextPart() (*Part, error) {
	if r.done {
		return nil, io.EOF
	}
	if err := r.cur.Drain(); err != nil {
		return nil, err
	}
	if !r.cur.Terminated() || r.cur.Last() {
		r.done = true
		return nil, io.EOF
	}
	r.cur = scanner.New(r.src, r.boundary)
	return newPart(r.cur), nil
}

// stickyErrorReader keeps returning the first error its underlying reader
// produced instead of reading past it. The buffered reader on top may
// otherwise retry a read on a broken source during boundary checks.
type stickyErrorReader struct {
	r   io.Reader
	err error
}

func (r *stickyErrorReader) Read(p []byte) (n int, _ error) {
	if r.err != nil {
		return 0, r.err
	}
	n, r.err = r.r.Read(p)
	return n, r.err
}
