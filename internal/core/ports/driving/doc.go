// Package driving defines the interfaces through which adapters drive the
// core (HTTP handlers, CLI commands).
package driving
