// Package kvserrors provides the unified error taxonomy that crosses every
// layer of kvsd: the log-structured engine, the B-tree engine, the wire
// protocol codec and the server loop all report failures through this
// package instead of returning raw library errors.
package kvserrors

// Kind is a closed set of failure categories. Every error kvsd returns
// across package boundaries carries exactly one Kind.
type Kind string

const (
	// KeyNotFound indicates a lookup or removal targeted a key absent
	// from the store.
	KeyNotFound Kind = "KEY_NOT_FOUND"

	// IO indicates a failure in a read, write, seek, flush, sync, open,
	// close, bind, or accept operation.
	IO Kind = "IO"

	// Serialization indicates a record or frame could not be encoded or
	// decoded into its on-disk or on-wire representation.
	Serialization Kind = "SERIALIZATION"

	// ProtocolHeadMismatch indicates a frame's magic head did not match
	// the expected two-byte sequence.
	ProtocolHeadMismatch Kind = "PROTOCOL_HEAD_MISMATCH"

	// ProtocolChecksumMismatch indicates a frame's CRC-16/ARC trailer
	// did not match the checksum recomputed over its body.
	ProtocolChecksumMismatch Kind = "PROTOCOL_CHECKSUM_MISMATCH"

	// ProtocolUnknownOpcode indicates a frame carried an opcode or
	// status byte outside the values this codec understands.
	ProtocolUnknownOpcode Kind = "PROTOCOL_UNKNOWN_OPCODE"

	// UTF8 indicates a key or value failed UTF-8 validation.
	UTF8 Kind = "UTF8"

	// BackendInternal indicates a failure surfaced by a third-party
	// storage backend (the B-tree engine) that kvsd cannot classify
	// any more precisely.
	BackendInternal Kind = "BACKEND_INTERNAL"

	// General covers invariant violations and anything else that does
	// not belong to a more specific kind above.
	General Kind = "GENERAL"
)

// String satisfies fmt.Stringer so Kind prints naturally in log fields.
func (k Kind) String() string {
	return string(k)
}
