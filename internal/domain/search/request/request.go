// Package request builds validated upstream search requests.
package request

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/kailas-cloud/novelsearch/internal/domain/search/content"
	"github.com/kailas-cloud/novelsearch/internal/domain/search/query"
)

// Request limits.
const (
	// MaxTermLength is the maximum length of a single free-text term field.
	MaxTermLength = 4096
	// ChunkSize is the number of items requested per chunk.
	ChunkSize = 500
)

// Upstream search endpoints.
const (
	SearchPath      = "/api/search"
	SearchUsersPath = "/api/search/users"
)

// Keys never forwarded upstream: paging is replaced by chunk paging, and
// sorting plus every local filter run over the accumulated chunks.
var localKeys = []string{
	"page", "size", "ageFilter", "sortBy",
	"postType", "length", "seriesStatus",
	"minWordCount", "maxWordCount", "startDate", "endDate",
	"minWorksCount", "maxWorksCount", "seriesStartDate", "seriesEndDate",
}

// Request is one chunk request to the platform search API.
type Request struct {
	path   string
	values url.Values
	chunk  int
	size   int
}

// New validates q and builds the request for the given 1-based chunk.
func New(q query.SearchQuery, chunk, size int) (Request, error) {
	for name, term := range map[string]string{
		"mustInclude":    q.MustInclude,
		"shouldInclude":  q.ShouldInclude,
		"mustNotInclude": q.MustNotInclude,
	} {
		if len(term) > MaxTermLength {
			return Request{}, fmt.Errorf("%s too long (max %d chars)", name, MaxTermLength)
		}
	}
	if chunk < 1 {
		return Request{}, fmt.Errorf("chunk must be >= 1, got %d", chunk)
	}
	if size <= 0 {
		size = ChunkSize
	}

	v := query.Values(q, localKeys...)
	v.Set("page", strconv.Itoa(chunk))
	v.Set("size", strconv.Itoa(size))

	path := SearchPath
	if q.Type == content.Users {
		path = SearchUsersPath
	}
	return Request{path: path, values: v, chunk: chunk, size: size}, nil
}

// Path returns the endpoint path.
func (r *Request) Path() string { return r.path }

// Values returns the encoded query parameters.
func (r *Request) Values() url.Values { return r.values }

// Chunk returns the 1-based chunk index.
func (r *Request) Chunk() int { return r.chunk }

// Size returns the requested chunk size.
func (r *Request) Size() int { return r.size }

// URL returns path and query joined.
func (r *Request) URL() string { return r.path + "?" + r.values.Encode() }
