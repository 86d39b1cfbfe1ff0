package wire

import (
	"encoding/binary"
	"io"

	"github.com/arvindmehta/kvsd/internal/kvserrors"
	"github.com/arvindmehta/kvsd/pkg/checksum"
)

// Command is one client request: an opcode plus the key and, for Set,
// the value. Get and Rm carry an empty Value.
type Command struct {
	Opcode Opcode
	Key    []byte
	Value  []byte
}

// Encode serializes c to the wire layout:
//
//	magic(2) opcode(1) keyLen(4 BE) valueLen(4 BE) key value crc16(2)
func (c Command) Encode() ([]byte, error) {
	bodyLen := 1 + 4 + 4 + len(c.Key) + len(c.Value)
	buf := make([]byte, 2+bodyLen+trailerSize)

	copy(buf[0:2], magicHead[:])
	buf[2] = byte(c.Opcode)
	binary.BigEndian.PutUint32(buf[3:7], uint32(len(c.Key)))
	binary.BigEndian.PutUint32(buf[7:11], uint32(len(c.Value)))
	copy(buf[11:11+len(c.Key)], c.Key)
	copy(buf[11+len(c.Key):], c.Value)

	payload := buf[:2+bodyLen]
	crc := checksum.ARC(payload)
	binary.BigEndian.PutUint16(buf[2+bodyLen:], crc)

	return buf, nil
}

// DecodeCommand reads exactly one Command frame from r.
func DecodeCommand(r io.Reader) (Command, error) {
	head := make([]byte, 2)
	if _, err := io.ReadFull(r, head); err != nil {
		return Command{}, kvserrors.New(err, kvserrors.IO, "failed to read command magic head")
	}
	if head[0] != magicHead[0] || head[1] != magicHead[1] {
		return Command{}, kvserrors.New(nil, kvserrors.ProtocolHeadMismatch, "command frame has an unrecognized magic head").
			WithDetail("head", head)
	}

	rest := make([]byte, 1+4+4)
	if _, err := io.ReadFull(r, rest); err != nil {
		return Command{}, kvserrors.New(err, kvserrors.IO, "failed to read command header")
	}

	opcode := Opcode(rest[0])
	switch opcode {
	case OpGet, OpSet, OpRm:
	default:
		return Command{}, kvserrors.New(nil, kvserrors.ProtocolUnknownOpcode, "command frame names an unknown opcode").
			WithDetail("opcode", rest[0])
	}

	keyLen := binary.BigEndian.Uint32(rest[1:5])
	valueLen := binary.BigEndian.Uint32(rest[5:9])

	body := make([]byte, int(keyLen)+int(valueLen))
	if _, err := io.ReadFull(r, body); err != nil {
		return Command{}, kvserrors.New(err, kvserrors.IO, "failed to read command key/value body")
	}

	trailer := make([]byte, trailerSize)
	if _, err := io.ReadFull(r, trailer); err != nil {
		return Command{}, kvserrors.New(err, kvserrors.IO, "failed to read command checksum trailer")
	}

	consumed := make([]byte, 0, 2+9+len(body))
	consumed = append(consumed, head...)
	consumed = append(consumed, rest...)
	consumed = append(consumed, body...)

	expected := binary.BigEndian.Uint16(trailer)
	if !checksum.Verify(consumed, expected) {
		return Command{}, kvserrors.New(nil, kvserrors.ProtocolChecksumMismatch, "command frame checksum mismatch")
	}

	return Command{
		Opcode: opcode,
		Key:    body[:keyLen],
		Value:  body[keyLen:],
	}, nil
}
