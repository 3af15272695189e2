package query

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/treemap/pkg/errors"
)

// Input encodings accepted by [Decode].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// FormatFromPath infers the input encoding from a file extension.
// Unknown extensions are treated as JSON.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// ReadFile decodes a response from the file at path.
func ReadFile(path string) (*Response, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNotFound, err, "open %s", path)
	}
	defer f.Close()
	return Decode(f, FormatFromPath(path))
}

// Decode reads a response in the given encoding. JSON numbers are kept as
// json.Number so measure precision survives until [Cell.Float].
func Decode(r io.Reader, format string) (*Response, error) {
	var resp Response
	switch format {
	case FormatJSON, "":
		dec := json.NewDecoder(r)
		dec.UseNumber()
		if err := dec.Decode(&resp); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode json")
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&resp); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode yaml")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q (must be json or yaml)", format)
	}
	return &resp, nil
}

// DecodeBytes is [Decode] over an in-memory document.
func DecodeBytes(data []byte, format string) (*Response, error) {
	return Decode(bytes.NewReader(data), format)
}

// Marshal encodes resp as canonical JSON. The output is stable for equal
// inputs, which makes it suitable as a cache key source.
func Marshal(resp *Response) ([]byte, error) {
	return json.Marshal(resp)
}
