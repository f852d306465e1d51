// Package bgstrip turns near-white backgrounds into full transparency.
//
// A pixel is near-white when its red, green and blue channels are each
// strictly greater than a threshold (230 by default). Such pixels become
// (255,255,255,0); every other pixel keeps its exact channel bytes. Images are
// handled as non-premultiplied NRGBA so that semi-transparent pixels survive a
// round trip unchanged. Files are always written back as PNG.
package bgstrip
