// Package multipart reads and writes MIME multipart streams, as defined in
// RFC 2046, one part at a time.
//
// Unlike the form-oriented multipart support in the standard library, this
// package is built for open-ended streams such as multipart/x-mixed-replace,
// the container format used by MJPEG cameras and other long-running HTTP
// push sources. Parts are never buffered whole: the reader hands out each
// part as an io.Reader that ends at the next boundary, and the writer
// passes body bytes straight through to the underlying stream. A stream
// may run forever, so nothing here ever waits for the end of the container
// before letting you at the data.
//
// Reading starts from an io.Reader and the content type that describes it,
// typically taken from the Content-Type header of an HTTP response:
//
//	r, err := multipart.NewReader(resp.Body, resp.Header.Get("Content-Type"))
//	...
//	for {
//		part, err := r.NextPart()
//		if err == io.EOF {
//			break
//		}
//		...
//	}
//
// Each Part exposes its parsed headers via Header and its body by being an
// io.Reader. Parts share the underlying stream, so they must be consumed
// in order; asking for the next part discards whatever is left of the
// current one.
//
// Writing mirrors reading. A Writer wraps an io.Writer, hands out one
// PartWriter at a time, and frames the parts with boundary delimiters as
// they are closed. Header fields set on a PartWriter are held back until
// the first body write, so Content-Length can be set after the body size
// is known as long as no body byte has been written yet. Flush pushes a
// finished part down to the receiver immediately, which is what keeps a
// motion-JPEG viewer live.
//
// For bounded payloads that must announce their total size up front, for
// example HTTP request bodies, Stream composes the same wire format
// eagerly from a list of sized parts and computes the exact content
// length without reading any of them.
//
// Content type parameter handling lives in the param subpackage and the
// part header model in the header subpackage; both are usable on their
// own.
package multipart
