package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeTweetBody(t *testing.T) {
	t.Parallel()

	content, media, err := sanitizeTweetBody("  hello  ", []string{" https://a/1.png ", "https://a/2.png"})
	require.NoError(t, err)
	require.Equal(t, "hello", content)
	require.Len(t, media, 2)
	require.Equal(t, "https://a/1.png", media[0].URL)
	require.Equal(t, 1, media[1].Position)

	_, media, err = sanitizeTweetBody("", []string{"https://a/1.png"})
	require.NoError(t, err)
	require.Len(t, media, 1)

	_, _, err = sanitizeTweetBody("   ", nil)
	require.ErrorIs(t, err, ErrEmptyTweet)
}

func TestSanitizeContentLimits(t *testing.T) {
	t.Parallel()

	_, err := sanitizeContent(strings.Repeat("字", maxContentLength))
	require.NoError(t, err)

	_, err = sanitizeContent(strings.Repeat("字", maxContentLength+1))
	require.ErrorIs(t, err, ErrContentTooLong)

	_, err = sanitizeContent("bad\x00byte")
	require.ErrorIs(t, err, ErrInvalidContent)
}

func TestSanitizeMediaLimits(t *testing.T) {
	t.Parallel()

	_, err := sanitizeMedia([]string{"a", "b", "c", "d", "e"})
	require.ErrorIs(t, err, ErrTooManyMedia)

	_, err = sanitizeMedia([]string{"a", " "})
	require.ErrorIs(t, err, ErrInvalidMedia)

	_, err = sanitizeMedia([]string{strings.Repeat("u", maxMediaURLLength+1)})
	require.ErrorIs(t, err, ErrInvalidMedia)

	media, err := sanitizeMedia(nil)
	require.NoError(t, err)
	require.Empty(t, media)
}

func TestSanitizePagination(t *testing.T) {
	t.Parallel()

	page, size, err := sanitizePagination(2, 0)
	require.NoError(t, err)
	require.Equal(t, 2, page)
	require.Equal(t, 0, size)

	_, _, err = sanitizePagination(-1, 10)
	require.ErrorIs(t, err, ErrInvalidPagination)

	_, _, err = sanitizePagination(0, maxHomePageSize+1)
	require.ErrorIs(t, err, ErrInvalidPagination)
}
