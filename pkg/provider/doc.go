// Package provider defines the adapter contract every vendor implements
// and the streaming helpers the adapters share: the tool-call fragment
// accumulator and tool schema sanitizing.
package provider
