// Package http serves the results of the latest analysis run as a
// read-only JSON API: the merged dataset, the aggregate tables for both
// grouping dimensions, the structured insights, the hypothesis-test
// results, and the daily summary, plus health and Prometheus metrics
// endpoints.
//
// NaN statistics are rendered as JSON null; encoding/json cannot
// represent NaN and callers must treat null as "no data", never zero.
package http
