package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CartLinesCreated counts cart lines inserted as new rows.
var CartLinesCreated = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "feastly",
	Subsystem: "cart",
	Name:      "lines_created_total",
	Help:      "Number of cart lines created as new rows.",
})

// CartLinesMerged counts add-to-cart requests folded into an existing line.
var CartLinesMerged = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "feastly",
	Subsystem: "cart",
	Name:      "lines_merged_total",
	Help:      "Number of add-to-cart requests merged into an existing line.",
})

// GeoQueries counts merchant discovery queries by mode.
var GeoQueries = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "feastly",
	Subsystem: "geo",
	Name:      "queries_total",
	Help:      "Number of geospatial merchant queries served.",
}, []string{"mode"})
