package blueprint

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zlib"
)

// Version is the exchange string format version prefix
const Version = '0'

var (
	// ErrUnsupportedType indicates a value that is neither a Blueprint nor a Book.
	ErrUnsupportedType = errors.New("blueprint: unsupported type")
	// ErrUnsupportedVersion indicates an exchange string with an unknown version prefix.
	ErrUnsupportedVersion = errors.New("blueprint: unsupported version")
)

type blueprintEnvelope struct {
	Blueprint *Blueprint `json:"blueprint"`
}

type bookEnvelope struct {
	Book *Book `json:"blueprint_book"`
}

// Marshal returns the JSON form of v, which must be a *Blueprint or *Book,
// wrapped in its top-level object.
func Marshal(v interface{}) ([]byte, error) {
	switch t := v.(type) {
	case *Blueprint:
		return json.Marshal(blueprintEnvelope{t})
	case *Book:
		return json.Marshal(bookEnvelope{t})
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedType, v)
	}
}

// Encode writes v to w as an exchange string.
func Encode(w io.Writer, v interface{}) error {
	b, err := Marshal(v)
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte{Version}); err != nil {
		return err
	}

	enc := base64.NewEncoder(base64.StdEncoding, w)
	zw, err := zlib.NewWriterLevel(enc, zlib.DefaultCompression)
	if err != nil {
		return err
	}
	if _, err := zw.Write(b); err != nil {
		return err
	}
	if err := zw.Close(); err != nil {
		return err
	}

	// Flushes any partial base64 block and padding
	return enc.Close()
}

// EncodeToString returns v as an exchange string.
func EncodeToString(v interface{}) (string, error) {
	var sb strings.Builder
	if err := Encode(&sb, v); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Decode returns the JSON held in exchange string s.
func Decode(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if len(s) == 0 || s[0] != Version {
		return nil, ErrUnsupportedVersion
	}

	zr, err := zlib.NewReader(base64.NewDecoder(base64.StdEncoding, strings.NewReader(s[1:])))
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	b := new(bytes.Buffer)
	if _, err := io.Copy(b, zr); err != nil {
		return nil, err
	}

	return b.Bytes(), nil
}
