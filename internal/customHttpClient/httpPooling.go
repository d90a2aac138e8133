package customHttpClient

import (
	"net/http"

	"github.com/avikram/studybuddy/internal/config"
)

var customTransport = &http.Transport{
	MaxIdleConns:        config.MaxIdleConns,
	MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
	IdleConnTimeout:     config.IdleConnTimeout,
}

// PooledClient returns a client that reuses connections to the local
// model server. Embedding happens once per chunk so without pooling the
// handshake cost dominates ingestion.
func PooledClient() *http.Client {
	return &http.Client{Transport: customTransport}
}
