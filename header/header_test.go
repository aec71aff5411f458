package header_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielN/multipart-handler/header"
)

func TestHeader(t *testing.T) {
	t.Parallel()

	h := header.New()
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, h.Names())

	_, err := h.Get(header.ContentType)
	assert.ErrorIs(t, err, header.ErrNoSuchField)

	h.Set(header.ContentType, "text/plain")
	h.Set("X-Frame", "17")

	assert.Equal(t, 2, h.Len())
	assert.Equal(t, []string{"Content-Type", "X-Frame"}, h.Names())

	v, err := h.Get("CONTENT-TYPE")
	assert.NoError(t, err)
	assert.Equal(t, "text/plain", v)

	// The last write wins and takes its spelling with it.
	h.Set("content-type", "image/jpeg")
	assert.Equal(t, 2, h.Len())

	v, err = h.Get(header.ContentType)
	assert.NoError(t, err)
	assert.Equal(t, "image/jpeg", v)
	assert.Equal(t, []string{"X-Frame", "content-type"}, h.Names())

	h.Del("X-FRAME")
	assert.Equal(t, 1, h.Len())

	_, err = h.Get("x-frame")
	assert.ErrorIs(t, err, header.ErrNoSuchField)
}

func TestHeader_GetInt(t *testing.T) {
	t.Parallel()

	h := header.New()
	h.Set(header.ContentLength, "14")
	h.Set("X-Bogus", "fourteen")

	assert.Equal(t, 14, h.GetInt(header.ContentLength, -1))
	assert.Equal(t, -1, h.GetInt("X-Bogus", -1))
	assert.Equal(t, -1, h.GetInt("Missing", -1))
	assert.Equal(t, 99, h.GetInt("Missing", 99))
}

func TestHeader_GetTime(t *testing.T) {
	t.Parallel()

	h := header.New()
	h.Set("Date", "Tue, 12 Jul 2022 13:45:00 +0000")
	h.Set("X-Odd-Date", "2022/07/12 13:45:00")
	h.Set("X-Not-Date", "whenever")

	tm, err := h.GetTime("Date")
	assert.NoError(t, err)
	assert.True(t, tm.Equal(time.Date(2022, time.July, 12, 13, 45, 0, 0, time.UTC)))

	// Not RFC 5322, still recoverable.
	tm, err = h.GetTime("X-Odd-Date")
	assert.NoError(t, err)
	assert.True(t, tm.Equal(time.Date(2022, time.July, 12, 13, 45, 0, 0, time.UTC)))

	_, err = h.GetTime("X-Not-Date")
	assert.Error(t, err)

	_, err = h.GetTime("Missing")
	assert.ErrorIs(t, err, header.ErrNoSuchField)
}

func TestHeader_GetAddressList(t *testing.T) {
	t.Parallel()

	h := header.New()
	h.Set("From", "J Doe <j@example.com>, spam@example.com")
	h.Set("X-Bad", "<<<")

	al, err := h.GetAddressList("From")
	require.NoError(t, err)
	assert.Len(t, al, 2)
	assert.Contains(t, al.String(), "j@example.com")

	_, err = h.GetAddressList("X-Bad")
	assert.Error(t, err)

	_, err = h.GetAddressList("Missing")
	assert.ErrorIs(t, err, header.ErrNoSuchField)
}

func TestHeader_GetDecoded(t *testing.T) {
	t.Parallel()

	h := header.New()
	h.Set("X-Plain", "nothing encoded here")
	h.Set("X-UTF8", "=?utf-8?q?Caf=C3=A9_au_lait?=")
	h.Set("X-KOI8", "=?KOI8-R?Q?=F0=D2=C9=D7=C5=D4?=")

	v, err := h.GetDecoded("X-Plain")
	assert.NoError(t, err)
	assert.Equal(t, "nothing encoded here", v)

	v, err = h.GetDecoded("X-UTF8")
	assert.NoError(t, err)
	assert.Equal(t, "Café au lait", v)

	v, err = h.GetDecoded("X-KOI8")
	assert.NoError(t, err)
	assert.Equal(t, "Привет", v)

	_, err = h.GetDecoded("Missing")
	assert.ErrorIs(t, err, header.ErrNoSuchField)
}

func TestHeader_WriteTo(t *testing.T) {
	t.Parallel()

	h := header.New()

	buf := &bytes.Buffer{}
	n, err := h.WriteTo(buf)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, buf.String())

	h.Set(header.ContentType, "text/plain")
	h.Set(header.ContentLength, "14")
	h.Set("X-Extra", "yes")

	buf.Reset()
	n, err = h.WriteTo(buf)
	assert.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t,
		"Content-Length: 14\r\n"+
			"Content-Type: text/plain\r\n"+
			"X-Extra: yes\r\n",
		buf.String())
}

func TestHeader_roundTrip(t *testing.T) {
	t.Parallel()

	h := header.New()
	h.Set(header.ContentType, "text/plain")
	h.Set("X-Marker", "alpha beta")

	buf := &bytes.Buffer{}
	_, err := h.WriteTo(buf)
	require.NoError(t, err)
	buf.WriteString("\r\n")

	back, err := header.Parse(strings.NewReader(buf.String()))
	require.NoError(t, err)
	assert.Equal(t, h.Len(), back.Len())

	for _, name := range h.Names() {
		want, err := h.Get(name)
		require.NoError(t, err)
		got, err := back.Get(name)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}
