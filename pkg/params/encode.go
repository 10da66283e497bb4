package params

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// ErrDecode is returned when an opaque parameter cannot be decoded.
var ErrDecode = errors.New("params: decode failed")

// Encode serializes a value into an opaque, URL-safe string:
// JSON, DEFLATE, then unpadded URL-safe base64. The result is suitable for
// embedding in a path segment or query value.
func Encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("params: marshal: %w", err)
	}

	var buf bytes.Buffer
	w, err := flate.NewWriter(&buf, flate.BestCompression)
	if err != nil {
		return "", fmt.Errorf("params: compress: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return "", fmt.Errorf("params: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("params: compress: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// Decode reverses Encode into dest. Any malformed input yields ErrDecode;
// callers treat opaque parameters from the wire as untrusted.
func Decode(s string, dest any) error {
	raw, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return errors.Join(ErrDecode, err)
	}

	r := flate.NewReader(bytes.NewReader(raw))
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Join(ErrDecode, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return errors.Join(ErrDecode, err)
	}
	return nil
}
