package diagram

import (
	"bytes"
	"compress/flate"
	"fmt"
)

// alphabet is the PlantUML base64 variant: digits first, then upper case,
// lower case, '-' and '_'. Every character is URL-safe, so the token can
// sit in a request path without escaping.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// Encode transforms diagram text into the compact token the PlantUML
// server expects in its request path: raw DEFLATE of the UTF-8 bytes,
// then the custom base64 mapping above. This is the server's documented
// text-encoding scheme, not a general-purpose codec.
func Encode(text string) (string, error) {
	var compressed bytes.Buffer
	w, err := flate.NewWriter(&compressed, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("diagram: init deflate: %w", err)
	}
	if _, err := w.Write([]byte(text)); err != nil {
		return "", fmt.Errorf("diagram: deflate: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("diagram: deflate: %w", err)
	}
	return encode64(compressed.Bytes()), nil
}

// encode64 maps bytes to the PlantUML alphabet in 3-byte groups. A short
// final group is zero-padded and still emits four characters, matching
// the reference encoder.
func encode64(data []byte) string {
	out := make([]byte, 0, (len(data)+2)/3*4)
	for i := 0; i < len(data); i += 3 {
		var b1, b2, b3 byte
		b1 = data[i]
		if i+1 < len(data) {
			b2 = data[i+1]
		}
		if i+2 < len(data) {
			b3 = data[i+2]
		}
		out = append(out,
			alphabet[b1>>2],
			alphabet[((b1&0x03)<<4)|(b2>>4)],
			alphabet[((b2&0x0F)<<2)|(b3>>6)],
			alphabet[b3&0x3F],
		)
	}
	return string(out)
}
