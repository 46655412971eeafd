// Package api defines the public contracts of the planweave graph runner:
// graph definitions, stage functions, transitions, run records, observers
// and the error taxonomy.
//
// Most applications import the root planweave package instead, which
// re-exports these types together with the GraphBuilder and the runner
// constructors.
package api
