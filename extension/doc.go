// Package extension provides the run-time registry that maps decision types
// to their handler services, together with a type registry for the Go structs
// handlers accept as typed metadata.
//
// The registry is normally populated through the public APIs under the root
// arbiter package, therefore most applications do not need to import this
// package directly.
package extension
