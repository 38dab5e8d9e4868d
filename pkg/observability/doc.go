/*
Package observability turns dispatch and navigation events into Prometheus
metrics and structured log lines.

Both are exposed as domain.DispatchHooks so hosts can merge them:

	m := observability.NewMetrics()
	hooks := m.Hooks().Merge(observability.LogHooks(logger))
*/
package observability
