// Package api defines the public data types of the transiro runtime: effect
// descriptors, the transition-function signature, task identifiers, the
// observer surface, and the typed errors every termination path maps to.
//
// Most applications import the root transiro package, which re-exports
// everything here; this package exists so the internal engine and the proxy
// implementations can share these types without import cycles.
package api
