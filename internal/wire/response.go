package wire

import (
	"encoding/binary"
	"io"

	"github.com/arvindmehta/kvsd/internal/kvserrors"
	"github.com/arvindmehta/kvsd/pkg/checksum"
)

// Response is one server reply: a status plus a free-form message
// (the retrieved value on a successful Get, an empty string on a
// successful Set/Rm, or a human-readable reason on Failure).
type Response struct {
	Status  Status
	Message []byte
}

// Success builds a Success response carrying message.
func Success(message string) Response {
	return Response{Status: StatusSuccess, Message: []byte(message)}
}

// Failure builds a Failure response carrying reason.
func Failure(reason string) Response {
	return Response{Status: StatusFailure, Message: []byte(reason)}
}

// Encode serializes r to the wire layout:
//
//	magic(2) status(1) msgLen(4 BE) message crc16(2)
func (r Response) Encode() ([]byte, error) {
	bodyLen := 1 + 4 + len(r.Message)
	buf := make([]byte, 2+bodyLen+trailerSize)

	copy(buf[0:2], magicHead[:])
	buf[2] = byte(r.Status)
	binary.BigEndian.PutUint32(buf[3:7], uint32(len(r.Message)))
	copy(buf[7:], r.Message)

	payload := buf[:2+bodyLen]
	crc := checksum.ARC(payload)
	binary.BigEndian.PutUint16(buf[2+bodyLen:], crc)

	return buf, nil
}

// DecodeResponse reads exactly one Response frame from r.
func DecodeResponse(r io.Reader) (Response, error) {
	head := make([]byte, 2)
	if _, err := io.ReadFull(r, head); err != nil {
		return Response{}, kvserrors.New(err, kvserrors.IO, "failed to read response magic head")
	}
	if head[0] != magicHead[0] || head[1] != magicHead[1] {
		return Response{}, kvserrors.New(nil, kvserrors.ProtocolHeadMismatch, "response frame has an unrecognized magic head").
			WithDetail("head", head)
	}

	rest := make([]byte, 1+4)
	if _, err := io.ReadFull(r, rest); err != nil {
		return Response{}, kvserrors.New(err, kvserrors.IO, "failed to read response header")
	}

	status := Status(rest[0])
	switch status {
	case StatusSuccess, StatusFailure:
	default:
		return Response{}, kvserrors.New(nil, kvserrors.ProtocolUnknownOpcode, "response frame names an unknown status").
			WithDetail("status", rest[0])
	}

	msgLen := binary.BigEndian.Uint32(rest[1:5])

	message := make([]byte, int(msgLen))
	if _, err := io.ReadFull(r, message); err != nil {
		return Response{}, kvserrors.New(err, kvserrors.IO, "failed to read response message")
	}

	trailer := make([]byte, trailerSize)
	if _, err := io.ReadFull(r, trailer); err != nil {
		return Response{}, kvserrors.New(err, kvserrors.IO, "failed to read response checksum trailer")
	}

	consumed := make([]byte, 0, 2+5+len(message))
	consumed = append(consumed, head...)
	consumed = append(consumed, rest...)
	consumed = append(consumed, message...)

	expected := binary.BigEndian.Uint16(trailer)
	if !checksum.Verify(consumed, expected) {
		return Response{}, kvserrors.New(nil, kvserrors.ProtocolChecksumMismatch, "response frame checksum mismatch")
	}

	return Response{Status: status, Message: message}, nil
}
