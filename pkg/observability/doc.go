/*
Package observability provides tools for monitoring the Arbor engine.

Everything here plugs into domain.LifecycleHooks: Prometheus collectors
count executions, tree changes, notifications and transitions, while
LoggingHooks emits one structured log line per event. MergeHooks combines
several hook sets into one.

	reg := prometheus.NewRegistry()
	metrics, _ := observability.NewMetrics(reg)

	engine, _ := arbor.New(arbor.WithLifecycleHooks(observability.MergeHooks(
		metrics.Hooks(),
		observability.LoggingHooks(logger),
	)))
*/
package observability
