// Package header models the header block of a multipart part: a small set
// of fields, each a name and a value, looked up case-insensitively. It
// parses header blocks from a byte stream, tolerating the line endings and
// folded continuation lines found in the wild, and serializes them back
// with CRLF endings.
//
// Field values are kept as the octets they arrived as. Accessors that
// interpret a value, such as GetInt, GetTime and GetDecoded, sit on top and
// never run during parsing.
package header

import (
	"errors"
	"fmt"
	"io"
	"net/mail"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/zostay/go-addr/pkg/addr"
)

// Names of header fields commonly found on multipart parts.
const (
	ContentType        = "Content-Type"
	ContentLength      = "Content-Length"
	ContentDisposition = "Content-Disposition"
	ContentID          = "Content-ID"
)

var (
	// ErrNoSuchField is returned when a requested header field is not
	// present in the header.
	ErrNoSuchField = errors.New("no such header field")
)

type field struct {
	name  string
	value string
}

// Header is a set of header fields. Lookup is case-insensitive and each
// name holds a single value, the one most recently set. The zero value is
// not useful; construct a Header with New or Parse.
type Header struct {
	fields map[string]*field
}

// New returns an empty Header.
func New() *Header {
	return &Header{fields: map[string]*field{}}
}

// Len returns the number of fields in the header.
func (h *Header) Len() int {
	return len(h.fields)
}

// Names returns the names of all fields in the header, sorted. Names keep
// the spelling they were last set with; fields that came from Parse are
// spelled in lower case.
func (h *Header) Names() []string {
	ns := make([]string, 0, len(h.fields))
	for _, f := range h.fields {
		ns = append(ns, f.name)
	}
	sort.Strings(ns)
	return ns
}

// Get returns the value of the named field. It returns ErrNoSuchField if
// the field is not present.
func (h *Header) Get(name string) (string, error) {
	f, ok := h.fields[strings.ToLower(name)]
	if !ok {
		return "", ErrNoSuchField
	}
	return f.value, nil
}

// GetInt returns the value of the named field as an integer. The default
// is returned when the field is missing or does not parse as an integer.
func (h *Header) GetInt(name string, def int) int {
	v, err := h.Get(name)
	if err != nil {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// GetTime returns the value of the named field as a timestamp. The value
// is first parsed as an RFC 5322 date; failing that, a lenient parse is
// attempted so that the many malformed date formats seen in real streams
// still come through.
func (h *Header) GetTime(name string) (time.Time, error) {
	v, err := h.Get(name)
	if err != nil {
		return time.Time{}, err
	}
	t, err := mail.ParseDate(v)
	if err == nil {
		return t, nil
	}
	return dateparse.ParseAny(v)
}

// GetAddressList returns the value of the named field parsed as a list of
// email addresses.
func (h *Header) GetAddressList(name string) (addr.AddressList, error) {
	v, err := h.Get(name)
	if err != nil {
		return nil, err
	}
	return addr.ParseEmailAddressList(v)
}

// Set stores a field value. The name is matched case-insensitively against
// existing fields and the last write wins, taking the new spelling with it.
func (h *Header) Set(name, value string) {
	h.fields[strings.ToLower(name)] = &field{name, value}
}

// Del removes the named field, if present.
func (h *Header) Del(name string) {
	delete(h.fields, strings.ToLower(name))
}

// WriteTo serializes the header fields as "Name: value" lines with CRLF
// endings, ordered by name. It does not write the blank line that ends a
// header block; that separator belongs to the part framing.
func (h *Header) WriteTo(w io.Writer) (int64, error) {
	ks := make([]string, 0, len(h.fields))
	for k := range h.fields {
		ks = append(ks, k)
	}
	sort.Strings(ks)

	var total int64
	for _, k := range ks {
		f := h.fields[k]
		n, err := fmt.Fprintf(w, "%s: %s\r\n", f.name, f.value)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
