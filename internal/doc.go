// Package internal provides the core types and implementation for the
// Mallo framework.
//
// This package is internal and should not be used directly. Import
// "github.com/mallo-web/mallo" instead, which re-exports the public API.
//
// # Core Types
//
//   - App: owns the route list, template engine, session store, and
//     dispatch configuration; multiple independent instances can coexist
//   - Request: the framework's immutable per-request view of an inbound
//     HTTP request, with decoded form, JSON, and file parts
//   - Response: the mutable in-flight response the pipeline stages
//     transform until it is written to the host server
//   - Router: ordered route list with typed path parameters and URL
//     reconstruction
//   - SessionManager: signed-cookie session identity, dirty-tracked
//     persistence, and CSRF enforcement
//
// # Dispatch
//
// Dispatch runs one request through a fixed stage sequence: session load,
// live-reload probe, before hooks, CSRF check, route resolution, handler
// invocation inside a recover boundary, response normalization, debug
// transforms, security headers, after hooks, and session finalization.
// Every recognized failure converts to a well-formed response; nothing in
// the pipeline is fatal to the process.
package internal
