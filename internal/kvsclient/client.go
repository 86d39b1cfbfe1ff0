// Package kvsclient implements a thin client over kvsd's wire
// protocol: dial, send exactly one command frame, read exactly one
// response frame, close. It carries no connection pooling or retry
// logic, mirroring the protocol's own no-pipelining, no-keep-alive
// contract.
package kvsclient

import (
	"net"

	"github.com/arvindmehta/kvsd/internal/kvserrors"
	"github.com/arvindmehta/kvsd/internal/wire"
)

// Client dials addr fresh for every call.
type Client struct {
	addr string
}

// New returns a Client targeting addr.
func New(addr string) *Client {
	return &Client{addr: addr}
}

// do dials addr, sends cmd, and returns the decoded response.
func (c *Client) do(cmd wire.Command) (wire.Response, error) {
	conn, err := net.Dial("tcp", c.addr)
	if err != nil {
		return wire.Response{}, kvserrors.New(err, kvserrors.IO, "failed to connect to server").WithDetail("addr", c.addr)
	}
	defer conn.Close()

	encoded, err := cmd.Encode()
	if err != nil {
		return wire.Response{}, kvserrors.New(err, kvserrors.Serialization, "failed to encode command")
	}
	if _, err := conn.Write(encoded); err != nil {
		return wire.Response{}, kvserrors.New(err, kvserrors.IO, "failed to send command")
	}

	return wire.DecodeResponse(conn)
}

// Get retrieves the value bound to key. A missing key is reported by
// the server as a Success response carrying "Key not found", matching
// the wire protocol's historical compatibility behavior; a stored value
// equal to that text cannot be told apart from a missing key.
func (c *Client) Get(key string) (wire.Response, error) {
	return c.do(wire.Command{Opcode: wire.OpGet, Key: []byte(key)})
}

// Set stores value under key.
func (c *Client) Set(key, value string) (wire.Response, error) {
	return c.do(wire.Command{Opcode: wire.OpSet, Key: []byte(key), Value: []byte(value)})
}

// Rm deletes the binding for key.
func (c *Client) Rm(key string) (wire.Response, error) {
	return c.do(wire.Command{Opcode: wire.OpRm, Key: []byte(key)})
}
