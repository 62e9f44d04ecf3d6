// Package core contains the OAuth entity model, the property codec, store
// contracts and the policy logic built on them: pruning, seeding and client
// permission checks. Storage adapters depend on this package, never the
// reverse.
package core
