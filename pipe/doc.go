// Package pipe is the runtime linked by code that savepipe generates.
//
// Every generated record implements Record. A record is written as its
// version tag followed by each field in declaration order:
//   - nested records recurse into their own SavePipeWrite
//   - bounded text is a fixed-size, zero-padded buffer whose last byte is 0
//   - everything else goes through the msgpack value encoder
//
// Reading checks the tag first. When it does not match, the generated code
// hands the already-read tag to the predecessor's SavePipeRead and converts
// the result forward, one version at a time.
package pipe
