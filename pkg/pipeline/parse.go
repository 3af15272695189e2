package pipeline

import (
	"io"

	"github.com/matzehuels/treemap/pkg/cache"
	"github.com/matzehuels/treemap/pkg/query"
)

// Parse decodes a query response in the given format ("json" or "yaml").
func Parse(r io.Reader, format string) (*query.Response, error) {
	return query.Decode(r, format)
}

// ParseFile reads a query response from path; the format follows the
// file extension.
func ParseFile(path string) (*query.Response, error) {
	return query.ReadFile(path)
}

// HashResponse returns the content hash used in cache keys.
func HashResponse(resp *query.Response) (string, error) {
	data, err := query.Marshal(resp)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
