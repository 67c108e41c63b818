// Package formats provides parsers for the asset file formats the viewer
// loads from disk.
//
// Wavefront OBJ meshes are parsed in obj.go. Only the geometry subset is
// supported: positions, texture coordinates, normals, polygon faces and
// groups. Material libraries are ignored.
package formats
