package multipart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/DanielN/multipart-handler/header"
	"github.com/DanielN/multipart-handler/param"
)

// ErrNoParts is returned by NewStream when no parts are given. A multipart
// stream must contain at least one part.
var ErrNoParts = errors.New("multipart stream needs at least one part")

// StreamPart is one part of a Stream. Size must be the exact number of
// bytes Body yields; it goes into the content length arithmetic.
type StreamPart struct {
	Header *header.Header
	Size   int64
	Body   io.Reader
}

type streamOpts struct {
	boundary string
}

// StreamOption refers to options that may be passed to NewStream to modify
// how the stream is composed.
type StreamOption func(*streamOpts)

// WithStreamBoundary is a StreamOption that sets the boundary instead of
// having NewStream generate a random one. NewStream fails with
// ErrInvalidBoundary if the boundary is not acceptable.
func WithStreamBoundary(boundary string) StreamOption {
	return func(o *streamOpts) { o.boundary = boundary }
}

// Stream is a fully composed multipart stream whose total size is known
// before any byte is read. Use it instead of Writer when the receiver
// needs a Content-Length up front, e.g. for HTTP uploads.
//
// The part header blocks are serialized eagerly at construction; part
// bodies are read lazily as the stream is consumed.
type Stream struct {
	io.Reader
	subtype  string
	boundary string
	size     int64
}

// NewStream composes a multipart stream of the given subtype from parts.
func NewStream(subtype string, parts []StreamPart, opts ...StreamOption) (*Stream, error) {
	o := streamOpts{}
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

	if len(parts) == 0 {
		return nil, ErrNoParts
	}

	// Every delimiter averages out to len(boundary)+6 bytes:
	//   head:   --boundary\r\n            (len+4)
	//   middle: \r\n--boundary\r\n        (len+6)
	//   close:  \r\n--boundary--\r\n      (len+8)
	// and a stream of n parts has n+1 of them.
	size := int64((len(parts) + 1) * (len(boundary) + 6))

	delimiter := []byte("\r\n--" + boundary + "\r\n")
	closeDelimiter := []byte("\r\n--" + boundary + "--\r\n")

	readers := make([]io.Reader, 0, len(parts)*3+1)
	for i, part := range parts {
		if i == 0 {
			readers = append(readers, bytes.NewReader(delimiter[2:]))
		} else {
			readers = append(readers, bytes.NewReader(delimiter))
		}

		var b bytes.Buffer
		if part.Header != nil {
			if _, err := part.Header.WriteTo(&b); err != nil {
				return nil, err
			}
		}
		b.WriteString("\r\n")
		size += int64(b.Len())
		readers = append(readers, &b)

		readers = append(readers, part.Body)
		size += part.Size
	}
	readers = append(readers, bytes.NewReader(closeDelimiter))

	return &Stream{
		Reader:   io.MultiReader(readers...),
		subtype:  subtype,
		boundary: boundary,
		size:     size,
	}, nil
}

// ContentType returns the content type of the stream, including the
// boundary parameter.
func (s *Stream) ContentType() string {
	return fmt.Sprintf("%s/%s;boundary=%q", param.Type, s.subtype, s.boundary)
}

// ContentLength returns the exact number of bytes the stream yields.
func (s *Stream) ContentLength() int64 {
	return s.size
}

// Boundary returns the boundary that separates the parts of the stream.
func (s *Stream) Boundary() string {
	return s.boundary
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, `\"`)

// FieldPart returns a StreamPart carrying a form field value.
func FieldPart(name, value string) StreamPart {
	h := header.New()
	h.Set(header.ContentDisposition,
		fmt.Sprintf(`form-data; name="%s"`, quoteEscaper.Replace(name)))
	return StreamPart{
		Header: h,
		Size:   int64(len(value)),
		Body:   strings.NewReader(value),
	}
}

// FilePart returns a StreamPart serving the contents of f under the given
// field and file name. The size is taken from the file, so f must not
// change until the stream has been read. The content type is derived from
// the file name extension.
func FilePart(name, filename string, f *os.File) (StreamPart, error) {
	fi, err := f.Stat()
	if err != nil {
		return StreamPart{}, err
	}
	if fi.IsDir() {
		return StreamPart{}, fmt.Errorf("file part %q: %q is a directory", name, filename)
	}

	contentType := mime.TypeByExtension(filepath.Ext(filename))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	h := header.New()
	h.Set(header.ContentDisposition,
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(name), quoteEscaper.Replace(filename)))
	h.Set(header.ContentType, contentType)
	return StreamPart{
		Header: h,
		Size:   fi.Size(),
		Body:   f,
	}, nil
}
