// Package resp implements the RESP wire format used by respkv.
//
// The package is split into:
//
//   - token.go: the Token value model (arrays, bulk strings, integers,
//     simple strings, errors, null and recognized commands)
//   - command.go: the recognized command identifiers
//   - decode.go: line-oriented decoder over a complete text buffer
//   - encode.go: exact wire rendering of tokens
//   - stream.go: reassembly of frames split across socket reads
//
// Decoding never panics on malformed input; faults are reported as
// *DecodeError values wrapping ErrProtocol, ErrIncomplete or ErrLimitExceeded.
package resp
