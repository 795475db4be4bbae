// Package metrics collects request statistics for the static server.
//
// Handlers emit events on a buffered channel without blocking; a single
// goroutine aggregates them per request path (request counts, bytes, status
// code distribution, average and P50/P95/P99 response times). Responses with
// status 404 share the NotFoundPath entry, and paths beyond the first thousand
// fall into OtherPath. The shutdown summary logs the totals, the probe outcome
// and the average and percentiles over all paths.
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//	collector.Emit(metrics.MetricEvent{Type: metrics.EventRequestReceived, Path: "/app.js"})
//	...
//	<-collector.Done()
//	collector.LogSummary(logger)
package metrics
