package server

import (
	"net"
	"testing"
)

func dial(t *testing.T, addr string) (net.Conn, error) {
	t.Helper()
	return net.Dial("tcp", addr)
}
