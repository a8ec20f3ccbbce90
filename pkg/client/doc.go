// Package client is the public entry point: it validates a unified
// config, selects the vendor adapter by the service discriminant, merges
// call options, and delegates to the adapter's unary or streaming call.
package client
