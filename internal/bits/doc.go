// Package bits implements MSB-first bit-level I/O for AAC bitstreams.
//
// Writer assembles access units; Reader parses them back for verification
// and for the stream inspection helpers of the root package.
package bits
