// Package imaging provides the image input and output used by the highlight
// pipeline and the MCP server.
//
// This package decodes image files through a shared cache, crops and
// encodes regions, renders the pipeline's intermediate grids for
// inspection, and outlines regions on a copy of the source image. All
// operations work with standard Go image.Image types and use a coordinate
// system where (0,0) is at the top-left corner, X increases rightward, and Y
// increases downward.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, Min is inclusive (top-left), Max is exclusive (bottom-right)
//
// # Supported Formats
//
// PNG, JPEG and GIF through the standard library, plus BMP, TIFF and WebP
// through golang.org/x/image. Saving supports whatever
// github.com/disintegration/imaging infers from the file extension.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. Individual image operations
// are stateless and can be called concurrently on different images. Operations
// on the same image should be synchronized by the caller if the image is mutable.
//
// # Performance Considerations
//
// For repeated operations on the same image, use ImageCache to avoid redundant
// disk reads. Large images may consume significant memory when cached.
// Consider using Evict() or Clear() to manage memory for long-running processes.
package imaging
