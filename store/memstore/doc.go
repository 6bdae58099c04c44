// Package memstore provides the in-memory reference backend for
// ticketreg. It is suitable for single-node deployments and tests; nothing
// survives a restart.
package memstore
