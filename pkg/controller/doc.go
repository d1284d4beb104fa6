// Package controller contains HTTP middlewares and helper handlers used by the
// watcher's operational HTTP server.
//
// Provided middlewares:
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//
// Provided handlers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers under /debug/pprof/.
//   - Health: Reports the outcome of the last invocation as JSON.
package controller
