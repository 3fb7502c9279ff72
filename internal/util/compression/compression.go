// Package compression provides the codecs used for stored values and HTTP
// responses.
package compression

import "strings"

type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)

	// Encoding is the Content-Encoding token for the codec.
	Encoding() string
}

// Negotiate picks the first of the preferred codecs the client accepts, or nil.
func Negotiate(acceptEncoding string, preferred ...Compressor) Compressor {
	accepted := map[string]bool{}
	for _, part := range strings.Split(acceptEncoding, ",") {
		token, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		if strings.ReplaceAll(strings.TrimSpace(params), " ", "") == "q=0" {
			continue
		}
		accepted[strings.ToLower(strings.TrimSpace(token))] = true
	}
	for _, c := range preferred {
		if accepted[c.Encoding()] {
			return c
		}
	}
	return nil
}
