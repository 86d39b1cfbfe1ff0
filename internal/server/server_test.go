package server

import (
	"bytes"
	"testing"

	"go.uber.org/zap"

	"github.com/arvindmehta/kvsd/internal/logengine"
	"github.com/arvindmehta/kvsd/internal/wire"
)

func TestServer_ServesSetGetRemoveOverTCP(t *testing.T) {
	log := zap.NewNop().Sugar()

	eng, err := logengine.Open(log, t.TempDir(), 0)
	if err != nil {
		t.Fatalf("logengine.Open() error = %v", err)
	}
	defer eng.Close()

	srv, err := New(log, eng, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer srv.Close()

	go srv.Serve()

	send := func(cmd wire.Command) wire.Response {
		conn, err := dial(t, srv.Addr())
		if err != nil {
			t.Fatalf("dial() error = %v", err)
		}
		defer conn.Close()

		encoded, err := cmd.Encode()
		if err != nil {
			t.Fatalf("Encode() error = %v", err)
		}
		if _, err := conn.Write(encoded); err != nil {
			t.Fatalf("Write() error = %v", err)
		}

		resp, err := wire.DecodeResponse(conn)
		if err != nil {
			t.Fatalf("DecodeResponse() error = %v", err)
		}
		return resp
	}

	resp := send(wire.Command{Opcode: wire.OpGet, Key: []byte("missing")})
	if resp.Status != wire.StatusSuccess || string(resp.Message) != "Key not found" {
		t.Fatalf("Get(missing) = %+v, want Success(Key not found)", resp)
	}

	resp = send(wire.Command{Opcode: wire.OpSet, Key: []byte("k"), Value: []byte("v")})
	if resp.Status != wire.StatusSuccess {
		t.Fatalf("Set(k, v) = %+v, want Success", resp)
	}

	resp = send(wire.Command{Opcode: wire.OpGet, Key: []byte("k")})
	if resp.Status != wire.StatusSuccess || !bytes.Equal(resp.Message, []byte("v")) {
		t.Fatalf("Get(k) = %+v, want Success(v)", resp)
	}

	resp = send(wire.Command{Opcode: wire.OpRm, Key: []byte("k")})
	if resp.Status != wire.StatusSuccess {
		t.Fatalf("Rm(k) = %+v, want Success", resp)
	}

	resp = send(wire.Command{Opcode: wire.OpRm, Key: []byte("k")})
	if resp.Status != wire.StatusFailure {
		t.Fatalf("Rm(k) second call = %+v, want Failure", resp)
	}
}
