// Package orchestrator pre-fills a flow: it fetches the external payload of
// every form step that declares a data source, binds it to the step's fields
// and collects the results alongside per-step failures.
package orchestrator
