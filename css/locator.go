package css

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const dataPrefix = "data:text/css;charset=utf-8,"

var ErrNotDataLocator = errors.New("not a CSS data locator")

// EncodeLocator wraps stylesheet text into data URI. Payload is escaped the
// way browsers' encodeURIComponent does it, so locators produced here are
// byte-identical to those registered by the browser add-on.
func EncodeLocator(text string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	b.Grow(len(dataPrefix) + len(text)*3/2)
	b.WriteString(dataPrefix)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if unreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func unreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

// Decode extracts stylesheet text from data URI. Both percent encoded and
// base64 payloads are accepted.
func Decode(locator string) (string, error) {
	rest, ok := strings.CutPrefix(locator, "data:")
	if !ok {
		return "", fmt.Errorf("%w: missing data scheme", ErrNotDataLocator)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", fmt.Errorf("%w: missing payload", ErrNotDataLocator)
	}

	params := strings.Split(header, ";")
	if !strings.EqualFold(strings.TrimSpace(params[0]), "text/css") {
		return "", fmt.Errorf("%w: media type %q", ErrNotDataLocator, params[0])
	}

	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotDataLocator, err)
	}
	if !isBase64 {
		return text, nil
	}
	data, err := base64.StdEncoding.DecodeString(text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrNotDataLocator, err)
	}
	return string(data), nil
}
