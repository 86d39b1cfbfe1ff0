package wire

import (
	"bytes"
	"testing"

	"github.com/arvindmehta/kvsd/internal/kvserrors"
)

func TestCommand_EncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		cmd  Command
	}{
		{name: "get", cmd: Command{Opcode: OpGet, Key: []byte("hello")}},
		{name: "set", cmd: Command{Opcode: OpSet, Key: []byte("hello"), Value: []byte("world")}},
		{name: "rm", cmd: Command{Opcode: OpRm, Key: []byte("hello")}},
		{name: "empty key and value", cmd: Command{Opcode: OpSet}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := tt.cmd.Encode()
			if err != nil {
				t.Fatalf("Encode() error = %v", err)
			}

			decoded, err := DecodeCommand(bytes.NewReader(encoded))
			if err != nil {
				t.Fatalf("DecodeCommand() error = %v", err)
			}

			if decoded.Opcode != tt.cmd.Opcode {
				t.Errorf("Opcode = %v, want %v", decoded.Opcode, tt.cmd.Opcode)
			}
			if !bytes.Equal(decoded.Key, tt.cmd.Key) {
				t.Errorf("Key = %q, want %q", decoded.Key, tt.cmd.Key)
			}
			if !bytes.Equal(decoded.Value, tt.cmd.Value) {
				t.Errorf("Value = %q, want %q", decoded.Value, tt.cmd.Value)
			}
		})
	}
}

func TestDecodeCommand_BadMagicHead(t *testing.T) {
	encoded, err := Command{Opcode: OpGet, Key: []byte("k")}.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	encoded[0] = 0xFF

	_, err = DecodeCommand(bytes.NewReader(encoded))
	if kvserrors.KindOf(err) != kvserrors.ProtocolHeadMismatch {
		t.Fatalf("DecodeCommand() kind = %v, want ProtocolHeadMismatch", kvserrors.KindOf(err))
	}
}

func TestDecodeCommand_UnknownOpcode(t *testing.T) {
	encoded, err := Command{Opcode: OpGet, Key: []byte("k")}.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	encoded[2] = 99

	_, err = DecodeCommand(bytes.NewReader(encoded))
	if kvserrors.KindOf(err) != kvserrors.ProtocolUnknownOpcode {
		t.Fatalf("DecodeCommand() kind = %v, want ProtocolUnknownOpcode", kvserrors.KindOf(err))
	}
}

func TestDecodeCommand_CorruptedChecksum(t *testing.T) {
	encoded, err := Command{Opcode: OpSet, Key: []byte("k"), Value: []byte("v")}.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	// Flip a byte inside the key, leaving the trailer untouched.
	encoded[11] ^= 0xFF

	_, err = DecodeCommand(bytes.NewReader(encoded))
	if kvserrors.KindOf(err) != kvserrors.ProtocolChecksumMismatch {
		t.Fatalf("DecodeCommand() kind = %v, want ProtocolChecksumMismatch", kvserrors.KindOf(err))
	}
}

func TestDecodeCommand_TruncatedFrame(t *testing.T) {
	encoded, err := Command{Opcode: OpSet, Key: []byte("k"), Value: []byte("v")}.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	_, err = DecodeCommand(bytes.NewReader(encoded[:len(encoded)-3]))
	if kvserrors.KindOf(err) != kvserrors.IO {
		t.Fatalf("DecodeCommand() kind = %v, want IO", kvserrors.KindOf(err))
	}
}
