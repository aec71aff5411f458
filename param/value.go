// Package param parses and renders the value of a multipart Content-type
// header. A multipart content type names the major type "multipart", a
// subtype such as "mixed" or "x-mixed-replace", and a parameter list that
// must include the boundary string separating the parts. This package
// deliberately implements the small parameter grammar that multipart
// producers actually emit rather than the full RFC 2045 grammar: no
// comments, no escape sequences inside quoted strings.
package param

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

const (
	// Type is the major MIME type shared by every multipart content type.
	Type = "multipart"

	// Boundary is the name of the parameter holding the part boundary.
	Boundary = "boundary"
)

// ErrNotMultipart is returned by Parse when the major type of the given
// content type is anything other than "multipart".
var ErrNotMultipart = errors.New("not a multipart MIME type")

// SyntaxError is returned by Parse when the parameter section of a content
// type cannot be understood. It records where parsing stopped.
type SyntaxError struct {
	Params string // the parameter section being parsed
	Pos    int    // byte offset into Params where the problem was found
	Msg    string // description of the problem
}

// Error returns the error message.
func (err *SyntaxError) Error() string {
	return fmt.Sprintf("content type %s at %d: %s", err.Msg, err.Pos, err.Params)
}

// Value is a parsed multipart content type. The zero value is not useful;
// construct one with Parse or New.
type Value struct {
	subtype string
	ps      map[string]string
}

// New constructs a Value from a subtype and a parameter map. The map is
// used as is, not copied. A nil map is replaced with an empty one.
func New(subtype string, ps map[string]string) *Value {
	if ps == nil {
		ps = map[string]string{}
	}
	return &Value{subtype, ps}
}

// Parse breaks down a multipart content type value such as
//
//	multipart/mixed; boundary="gc0pJq0M:08jU534c0p"
//
// into its subtype and parameters. The major type must be "multipart" or
// ErrNotMultipart is returned. Type and subtype comparisons are
// case-insensitive and the parsed subtype is folded to lower case.
//
// Parameters are separated by semicolons. Keys are folded to lower case
// and values are trimmed of surrounding whitespace. A value may be wrapped
// in double quotes, in which case it runs to the closing quote and may
// contain semicolons and equals signs verbatim. When the same key appears
// more than once the last occurrence wins. An empty parameter segment is
// skipped. Anything else out of place is reported as a *SyntaxError.
func Parse(contentType string) (*Value, error) {
	subtype, err := parseSubtype(contentType)
	if err != nil {
		return nil, err
	}
	ps, err := parseParams(contentType)
	if err != nil {
		return nil, err
	}
	return &Value{subtype, ps}, nil
}

func parseSubtype(contentType string) (string, error) {
	typ := contentType
	if i := strings.IndexByte(typ, ';'); i >= 0 {
		typ = typ[:i]
	}
	typ = strings.ToLower(strings.TrimSpace(typ))
	if !strings.HasPrefix(typ, Type+"/") {
		return "", fmt.Errorf("%w: %s", ErrNotMultipart, contentType)
	}
	return strings.TrimSpace(typ[len(Type)+1:]), nil
}

func parseParams(contentType string) (map[string]string, error) {
	ps := map[string]string{}
	i := strings.IndexByte(contentType, ';')
	if i < 0 {
		return ps, nil
	}
	params := contentType[i+1:]

	var key string
	inKey := true
	inString := false
	start := 0
	for i = 0; i < len(params); i++ {
		switch params[i] {
		case '=':
			if inKey {
				key = strings.ToLower(strings.TrimSpace(params[start:i]))
				start = i + 1
				inKey = false
			} else if !inString {
				return nil, &SyntaxError{params, i, "parameter value has illegal character '='"}
			}
		case ';':
			if inKey {
				if strings.TrimSpace(params[start:i]) != "" {
					return nil, &SyntaxError{params, i, "parameter missing value"}
				}
				// Empty segment, skip it.
				start = i + 1
			} else if !inString {
				ps[key] = strings.TrimSpace(params[start:i])
				start = i + 1
				inKey = true
			}
		case '"':
			switch {
			case inKey:
				return nil, &SyntaxError{params, i, `parameter key has illegal character '"'`}
			case inString:
				ps[key] = strings.TrimSpace(params[start:i])
				for i++; i < len(params) && params[i] != ';'; i++ {
					if !isSpace(params[i]) {
						return nil, &SyntaxError{params, i, "parameter value has garbage after quoted string"}
					}
				}
				if start = i + 1; start > len(params) {
					start = len(params)
				}
				inString = false
				inKey = true
			default:
				if strings.TrimSpace(params[start:i]) != "" {
					return nil, &SyntaxError{params, i, "parameter value has garbage before quoted string"}
				}
				start = i + 1
				inString = true
			}
		}
	}
	switch {
	case inKey:
		if strings.TrimSpace(params[start:]) != "" {
			return nil, &SyntaxError{params, i, "parameter missing value"}
		}
	case inString:
		return nil, &SyntaxError{params, i, "unterminated quoted string"}
	default:
		ps[key] = strings.TrimSpace(params[start:])
	}
	return ps, nil
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\n':
		return true
	}
	return false
}

// MediaType returns the full MIME type, e.g. "multipart/mixed".
func (pv *Value) MediaType() string {
	return Type + "/" + pv.subtype
}

// Subtype returns the multipart subtype, e.g. "mixed".
func (pv *Value) Subtype() string {
	return pv.subtype
}

// Parameters returns the parameter map. The map belongs to the Value and
// must not be modified by the caller.
func (pv *Value) Parameters() map[string]string {
	return pv.ps
}

// Parameter returns the value of the named parameter or an empty string if
// it is not present. The name is matched case-insensitively.
func (pv *Value) Parameter(k string) string {
	return pv.ps[strings.ToLower(k)]
}

// Boundary returns the value of the boundary parameter, if any.
func (pv *Value) Boundary() string {
	return pv.ps[Boundary]
}

// String renders the content type with its parameters in sorted key order.
// Values that contain specials are quoted.
func (pv *Value) String() string {
	ks := make([]string, 0, len(pv.ps))
	for k := range pv.ps {
		ks = append(ks, k)
	}
	sort.Strings(ks)

	parts := make([]string, len(ks)+1)
	parts[0] = pv.MediaType()
	for n, k := range ks {
		v := pv.ps[k]
		if needsQuoting(v) {
			v = `"` + v + `"`
		}
		parts[n+1] = fmt.Sprintf("%s=%s", k, v)
	}
	return strings.Join(parts, "; ")
}

func needsQuoting(v string) bool {
	if v == "" {
		return true
	}
	return strings.ContainsAny(v, "()<>@,;:\\\"/[]?= \t")
}
