package ingest

import (
	"errors"
	"fmt"

	"github.com/roach88/meshsniff/internal/mesh"
)

// FaultError reports an accepted packet that could not be committed.
// The ingestor stops at the first fault.
type FaultError struct {
	// PacketID is the mesh packet id of the lost packet.
	PacketID uint32

	// Port is the packet's application tag.
	Port mesh.Port

	// Err is the underlying store error.
	Err error
}

func (e *FaultError) Error() string {
	return fmt.Sprintf("ingestion fault: packet %d (%s): %v", e.PacketID, e.Port, e.Err)
}

func (e *FaultError) Unwrap() error {
	return e.Err
}

// IsFault reports whether err is, or wraps, a *FaultError.
func IsFault(err error) bool {
	var fe *FaultError
	return errors.As(err, &fe)
}
