// Package transport defines the injectable HTTP port used for every
// provider call, unary and streaming alike.
//
// A Transport is a single function with fetch-like semantics: it takes a
// URL plus method/headers/body and returns a Response whose Body is a
// byte stream. The core performs no other I/O. Resolution precedence per
// call is: per-call override, per-config override, process-wide default,
// ambient net/http default.
package transport
