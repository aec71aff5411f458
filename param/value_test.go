package param_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielN/multipart-handler/param"
)

func TestParse(t *testing.T) {
	t.Parallel()

	pv, err := param.Parse("multipart/mixed")
	assert.NoError(t, err)
	assert.Equal(t, "multipart/mixed", pv.MediaType())
	assert.Equal(t, "mixed", pv.Subtype())
	assert.Equal(t, map[string]string{}, pv.Parameters())

	pv, err = param.Parse("multipart/mixed;")
	assert.NoError(t, err)
	assert.Equal(t, "mixed", pv.Subtype())
	assert.Equal(t, map[string]string{}, pv.Parameters())

	pv, err = param.Parse("multipart/mixed; ")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{}, pv.Parameters())

	pv, err = param.Parse("MULTIPART/X-Mixed-Replace")
	assert.NoError(t, err)
	assert.Equal(t, "x-mixed-replace", pv.Subtype())

	pv, err = param.Parse("multipart/x-foo-bar ; foo=\"bar/baz\";test=")
	assert.NoError(t, err)
	assert.Equal(t, "x-foo-bar", pv.Subtype())
	assert.Equal(t, map[string]string{
		"foo":  "bar/baz",
		"test": "",
	}, pv.Parameters())

	_, err = param.Parse("text/plain")
	assert.ErrorIs(t, err, param.ErrNotMultipart)

	_, err = param.Parse("multipart")
	assert.ErrorIs(t, err, param.ErrNotMultipart)

	_, err = param.Parse("multiparty/mixed")
	assert.ErrorIs(t, err, param.ErrNotMultipart)
}

func TestParse_parameters(t *testing.T) {
	t.Parallel()

	pv, err := param.Parse("multipart/mixed;boundary=qwerty")
	assert.NoError(t, err)
	assert.Equal(t, "qwerty", pv.Boundary())

	pv, err = param.Parse("multipart/mixed; boundary=\"qwerty\"")
	assert.NoError(t, err)
	assert.Equal(t, "qwerty", pv.Boundary())

	pv, err = param.Parse("multipart/mixed;test=\"quoted=can contain;\";boundary=qwerty")
	assert.NoError(t, err)
	assert.Equal(t, "quoted=can contain;", pv.Parameter("test"))
	assert.Equal(t, "qwerty", pv.Boundary())

	pv, err = param.Parse("multipart/mixed\t; boundary = 42 ;foo=;bar=   123;baz= \"\" ;")
	assert.NoError(t, err)
	assert.Equal(t, map[string]string{
		"boundary": "42",
		"foo":      "",
		"bar":      "123",
		"baz":      "",
	}, pv.Parameters())

	// Boundary examples straight out of RFC 2046.
	pv, err = param.Parse("multipart/mixed; Boundary=\"gc0p4Jq0M2Yt08jU534c0p\" ")
	assert.NoError(t, err)
	assert.Equal(t, "gc0p4Jq0M2Yt08jU534c0p", pv.Boundary())

	pv, err = param.Parse("multipart/mixed; boundary=gc0pJq0M:08jU534c0p")
	assert.NoError(t, err)
	assert.Equal(t, "gc0pJq0M:08jU534c0p", pv.Boundary())

	// Last occurrence of a repeated key wins.
	pv, err = param.Parse("multipart/mixed;boundary=first;boundary=second")
	assert.NoError(t, err)
	assert.Equal(t, "second", pv.Boundary())

	// Empty segments are skipped.
	pv, err = param.Parse("multipart/mixed;;boundary=x")
	assert.NoError(t, err)
	assert.Equal(t, "x", pv.Boundary())

	pv, err = param.Parse("multipart/mixed; ; boundary=x")
	assert.NoError(t, err)
	assert.Equal(t, "x", pv.Boundary())
}

func TestParse_syntaxErrors(t *testing.T) {
	t.Parallel()

	bad := []string{
		"multipart/mixed;boundary=a=b",
		"multipart/mixed;boundary",
		"multipart/mixed;boundary;foo=1",
		"multipart/mixed;foo=bar\"baz\"",
		"multipart/mixed;foo=\"bar\"baz",
		"multipart/mixed;foo=\"bar",
		"multipart/mixed;fo\"o=bar",
	}
	for _, ct := range bad {
		_, err := param.Parse(ct)
		require.Error(t, err, "Parse(%q)", ct)

		var serr *param.SyntaxError
		require.ErrorAs(t, err, &serr, "Parse(%q)", ct)
		assert.NotEmpty(t, serr.Msg)
	}

	_, err := param.Parse("multipart/mixed;boundary=a=b")
	var serr *param.SyntaxError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "boundary=a=b", serr.Params)
	assert.Equal(t, 10, serr.Pos)
}

func TestValue_accessors(t *testing.T) {
	t.Parallel()

	pv := param.New("related", map[string]string{
		"boundary": "abc123",
		"start":    "<root>",
	})

	assert.Equal(t, "multipart/related", pv.MediaType())
	assert.Equal(t, "related", pv.Subtype())
	assert.Equal(t, "abc123", pv.Boundary())
	assert.Equal(t, "abc123", pv.Parameter(param.Boundary))
	assert.Equal(t, "abc123", pv.Parameter("BOUNDARY"))
	assert.Equal(t, "<root>", pv.Parameter("start"))
	assert.Equal(t, "", pv.Parameter("missing"))
}

func TestValue_String(t *testing.T) {
	t.Parallel()

	pv := param.New("mixed", nil)
	assert.Equal(t, "multipart/mixed", pv.String())

	pv = param.New("mixed", map[string]string{"boundary": "abc123"})
	assert.Equal(t, "multipart/mixed; boundary=abc123", pv.String())

	pv = param.New("mixed", map[string]string{
		"boundary": "gc0pJq0M:08jU534c0p",
		"empty":    "",
	})
	assert.Equal(t, `multipart/mixed; boundary="gc0pJq0M:08jU534c0p"; empty=""`, pv.String())

	// Rendered values parse back to the same thing.
	back, err := param.Parse(pv.String())
	assert.NoError(t, err)
	assert.Equal(t, pv.Parameters(), back.Parameters())
}
