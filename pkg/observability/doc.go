/*
Package observability provides tools for monitoring draw flows.

It includes Prometheus collectors bound to the engine lifecycle hooks, structured
logging hooks, and a helper to chain several hook sets onto one engine.
*/
package observability
