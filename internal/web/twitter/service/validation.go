package service

import (
	"strings"
	"unicode/utf8"

	"github.com/Laisky/errors/v2"

	"github.com/Laisky/twitter-clone/internal/web/twitter/model"
)

const (
	// maxContentLength caps tweet content, in runes.
	maxContentLength = 500
	// maxMediaPerTweet caps the media references of one tweet.
	maxMediaPerTweet = 4
	// maxMediaURLLength caps the length of one media reference.
	maxMediaURLLength = 1024
	// maxHomePageSize caps the number of tweets returned per page.
	maxHomePageSize = 100
)

// sanitizeContent trims content, rejects null bytes, and enforces the rune limit.
// An empty result is allowed, emptiness is decided together with media.
func sanitizeContent(content string) (string, error) {
	trimmed := strings.TrimSpace(content)
	if strings.ContainsRune(trimmed, '\x00') {
		return "", errors.Wrap(ErrInvalidContent, "content contains invalid null byte")
	}
	if utf8.RuneCountInString(trimmed) > maxContentLength {
		return "", errors.Wrapf(ErrContentTooLong, "content exceeds max length %d", maxContentLength)
	}
	return trimmed, nil
}

// sanitizeMedia validates media references and returns them as ordered rows.
func sanitizeMedia(urls []string) ([]*model.Media, error) {
	if len(urls) > maxMediaPerTweet {
		return nil, errors.Wrapf(ErrTooManyMedia, "at most %d media allowed", maxMediaPerTweet)
	}

	media := make([]*model.Media, 0, len(urls))
	for i, raw := range urls {
		u := strings.TrimSpace(raw)
		switch {
		case u == "":
			return nil, errors.Wrapf(ErrInvalidMedia, "media %d is empty", i)
		case len(u) > maxMediaURLLength:
			return nil, errors.Wrapf(ErrInvalidMedia, "media %d exceeds max length %d", i, maxMediaURLLength)
		case strings.ContainsRune(u, '\x00'):
			return nil, errors.Wrapf(ErrInvalidMedia, "media %d contains invalid null byte", i)
		}
		media = append(media, &model.Media{Position: i, URL: u})
	}

	return media, nil
}

// sanitizeTweetBody validates content and media together.
func sanitizeTweetBody(content string, urls []string) (string, []*model.Media, error) {
	content, err := sanitizeContent(content)
	if err != nil {
		return "", nil, err
	}
	media, err := sanitizeMedia(urls)
	if err != nil {
		return "", nil, err
	}
	if content == "" && len(media) == 0 {
		return "", nil, ErrEmptyTweet
	}

	return content, media, nil
}

// sanitizePagination validates page and size bounds and returns the sanitized values or an error.
func sanitizePagination(page int, size int) (int, int, error) {
	if page < 0 {
		return 0, 0, errors.Wrap(ErrInvalidPagination, "page must be non-negative")
	}
	if size < 0 || size > maxHomePageSize {
		return 0, 0, errors.Wrapf(ErrInvalidPagination, "size must be within [0~%d]", maxHomePageSize)
	}
	return page, size, nil
}
