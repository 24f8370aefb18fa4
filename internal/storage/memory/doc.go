// Package memory provides the in-memory key-value store behind respkv.
//
// Keys and values are resp.Token values. Keys are bucketed by their
// structural hash and compared with Token.Equal, so any token kind can
// serve as a key.
//
// Expiry:
//
// An entry may carry an absolute expiry in milliseconds since the Unix
// epoch, computed once when it is written. Get treats an entry as live
// while its expiry is strictly greater than the current time. Expired
// entries are recognized on read but never removed; they stay resident
// until the same key is written again. Stats reports how many such
// entries are held.
//
// Thread Safety:
//
// Every operation takes a single mutex for its duration. No lock is held
// beyond the call.
package memory
