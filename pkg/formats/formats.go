// Package formats provides parsers for the mesh formats the exporter reads.
package formats

// Note: RSM (Resource Model) is implemented in rsm.go
// Note: Wavefront OBJ is implemented in obj.go
