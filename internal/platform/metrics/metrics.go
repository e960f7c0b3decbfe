package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler exposes the default prometheus registry. Domain slices register
// their counters via promauto into that registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
