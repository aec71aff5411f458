package multipart

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBoundary is returned when a caller-supplied boundary contains
// characters that are not allowed in a boundary or has an illegal length.
var ErrInvalidBoundary = errors.New("invalid boundary")

// boundaryChars are the characters allowed in a boundary besides letters
// and digits. Space is allowed too, but not as the last character.
const boundaryChars = "'()+_,-./:=?"

// GenerateBoundary returns a random boundary suitable for a multipart
// stream. The boundary is sixteen uppercase hex digits, which cannot clash
// with base64 or quoted-printable encoded part bodies.
func GenerateBoundary() (string, error) {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", err
	}
	return fmt.Sprintf("%016X", binary.BigEndian.Uint64(buf[:])), nil
}

// GenerateSafeBoundary returns a random boundary that does not occur in the
// given content. Use it when all part bodies are known up front and must
// not be rescanned for accidental delimiter collisions.
func GenerateSafeBoundary(contents string) (string, error) {
	for {
		boundary, err := GenerateBoundary()
		if err != nil {
			return "", err
		}
		if !strings.Contains(contents, boundary) {
			return boundary, nil
		}
	}
}

func validateBoundary(boundary string) error {
	if len(boundary) < 1 || len(boundary) > 70 {
		return fmt.Errorf("%w: length must be 1 to 70 characters: %q", ErrInvalidBoundary, boundary)
	}
	if boundary[len(boundary)-1] == ' ' {
		return fmt.Errorf("%w: must not end with a space: %q", ErrInvalidBoundary, boundary)
	}
	for _, c := range boundary {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == ' ':
		case strings.ContainsRune(boundaryChars, c):
		default:
			return fmt.Errorf("%w: illegal character %q in %q", ErrInvalidBoundary, c, boundary)
		}
	}
	return nil
}
