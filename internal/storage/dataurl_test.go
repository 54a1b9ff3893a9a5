package storage

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDataURLRoundTrip(t *testing.T) {
	u := EncodeDataURL("image/png", []byte("png-bytes"))
	require.Equal(t, "data:image/png;base64,cG5nLWJ5dGVz", u)

	b, ct, err := DecodeDataURL(u)
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(b))
	require.Equal(t, "image/png", ct)
}

func TestDecodeDataURLVariants(t *testing.T) {
	b, ct, err := DecodeDataURL("cG5nLWJ5dGVz")
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(b))
	require.Empty(t, ct)

	_, _, err = DecodeDataURL("data:text/plain,hello")
	require.ErrorIs(t, err, ErrBadDataURL)
	_, _, err = DecodeDataURL("data:image/png;base64")
	require.ErrorIs(t, err, ErrBadDataURL)
	_, _, err = DecodeDataURL("!!!")
	require.ErrorIs(t, err, ErrBadDataURL)
}
