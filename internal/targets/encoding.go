package targets

import (
	"strings"

	"go.trai.ch/maestro/internal/core/domain"
	"go.trai.ch/zerr"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
)

// DefaultEncoding is used when a text target does not name one.
const DefaultEncoding = "utf-8"

// lookupEncoding resolves an encoding label. utf-8-sig strips a byte order mark when
// reading and writes one when encoding; every other label follows the WHATWG index.
func lookupEncoding(label string) (encoding.Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "", "utf-8", "utf8":
		return unicode.UTF8, nil
	case "utf-8-sig", "utf8-sig":
		return unicode.UTF8BOM, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrUnknownEncoding.Error()), "encoding", label)
	}
	return enc, nil
}

func decodeText(enc encoding.Encoding, data []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func encodeText(enc encoding.Encoding, text string) ([]byte, error) {
	return enc.NewEncoder().Bytes([]byte(text))
}
