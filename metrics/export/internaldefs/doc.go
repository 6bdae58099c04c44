// Package internaldefs holds the shared metric definitions consumed by the
// exporters under metrics/export. It exists so exporter packages agree on
// instrument names without importing one another.
package internaldefs
