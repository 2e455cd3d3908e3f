package server

import (
	"hash/fnv"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/woozymasta/neairports/assets"
	"github.com/woozymasta/neairports/internal/explorer"
	"github.com/woozymasta/neairports/internal/metrics"
)

// ServerContext holds dependencies for request handlers.
type ServerContext struct {
	Explorer  *explorer.Service
	Metrics   *metrics.Collector
	IndexHTML []byte
	Favicon   []byte

	indexETag string
}

// NewServerContext prepares the handler dependencies. metrics may be nil.
func NewServerContext(svc *explorer.Service, collector *metrics.Collector, index []byte) *ServerContext {
	ctx := &ServerContext{
		Explorer:  svc,
		Metrics:   collector,
		IndexHTML: index,
		Favicon:   assets.Favicon,
		indexETag: contentETag(index),
	}

	log.Debug().
		Int("index_bytes", len(index)).
		Str("etag", ctx.indexETag).
		Bool("metrics", collector != nil).
		Msg("Server context initialized")

	return ctx
}

func contentETag(content []byte) string {
	h := fnv.New64a()
	_, _ = h.Write(content)

	buf := make([]byte, 0, etagCap)
	buf = append(buf, '"')
	buf = strconv.AppendInt(buf, int64(len(content)), 16)
	buf = append(buf, '-')
	buf = strconv.AppendUint(buf, h.Sum64(), 16)
	buf = append(buf, '"')
	return string(buf)
}
