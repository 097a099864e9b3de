// Package encoding provides the decompression primitives and algorithm
// negotiation used when unwrapping framed message payloads.
//
// Captured gRPC and Connect streams flag compression per frame but name the
// algorithm out of band, in one of several headers that vary between
// ecosystems. Preferred derives an ordered candidate list from those headers,
// and DecodeFirst tries the candidates until one succeeds.
//
// Supported algorithms: gzip, deflate (zlib or raw), br, zstd, and identity.
package encoding
