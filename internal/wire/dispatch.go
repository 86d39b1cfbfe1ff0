package wire

import (
	"github.com/arvindmehta/kvsd/internal/engine"
	"github.com/arvindmehta/kvsd/internal/kvserrors"
)

// Dispatch invokes cmd against eng and builds the Response to send
// back. The found-but-absent case for Get is deliberately reported as
// Success carrying "Key not found" rather than Failure, preserving the
// original protocol's client-visible behavior.
func Dispatch(eng engine.Engine, cmd Command) Response {
	switch cmd.Opcode {
	case OpGet:
		value, found, err := eng.Get(cmd.Key)
		if err != nil {
			return Failure("Internal error")
		}
		if !found {
			return Success("Key not found")
		}
		return Success(string(value))

	case OpSet:
		if err := eng.Set(cmd.Key, cmd.Value); err != nil {
			return Failure("Cant set")
		}
		return Success("")

	case OpRm:
		if err := eng.Remove(cmd.Key); err != nil {
			return Failure("Key not found")
		}
		return Success("")

	default:
		return Failure(kvserrors.New(nil, kvserrors.ProtocolUnknownOpcode, "unknown opcode reached dispatch").Error())
	}
}
