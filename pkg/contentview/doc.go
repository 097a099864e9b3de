// Package contentview turns opaque captured message bodies into readable text.
//
// A Contentview inspects a byte buffer together with request metadata
// (content type, headers, an optional protobuf definitions reference) and
// produces a best-effort textual rendering. Views are pluggable: each one
// reports a confidence score for a given buffer, and a Registry ranks all
// registered views so callers can ask for "the best rendering of these bytes"
// without knowing the format up front.
//
// The package ships the views a protocol-inspection tool needs out of the box:
//
//   - ProtobufView: schema-less decoding of protobuf wire-format payloads into
//     a field tree, with heuristics that distinguish text, nested messages and
//     opaque binary.
//   - GRPCView: unwrapping of gRPC / gRPC-Web / Connect length-prefixed frames,
//     including per-frame decompression and trailer rendering, delegating each
//     frame payload back to the registry.
//   - JSONView, RawView, HexView: generic fallbacks so that rendering never
//     comes back empty.
//
// All views are safe for concurrent use: rendering is pure computation over
// the input buffer with no shared mutable state. Inputs are untrusted;
// every view degrades to a lossy or hex rendering instead of failing, and a
// render error only ever means "this view does not apply to these bytes".
package contentview
