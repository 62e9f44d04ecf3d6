// Package grants routes token requests to pluggable grant-type handlers.
//
// A Registry maps each grant_type to exactly one Handler. The Dispatcher
// resolves the handler for a request and returns its tagged Result, or an
// unsupported-grant-type error when nothing is registered. Requests can be
// built from fosite access requests so the package plugs into an existing
// fosite token endpoint.
package grants
