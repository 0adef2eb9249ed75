// Package formats provides parsers for the asset file formats scenes
// reference: Wavefront OBJ geometry and DirectDraw Surface textures.
package formats

// Note: OBJ is implemented in obj.go
// Note: DDS (uncompressed and DXT1/DXT3/DXT5) is implemented in dds.go
