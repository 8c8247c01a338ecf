package scene

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Clone returns a document with no shared mutable state with the receiver.
// Mutating the clone never observes through to the source and vice versa,
// including after the source is itself later mutated. The error case is
// resource exhaustion only; a well-formed document always clones.
func (d *Document) Clone() (*Document, error) {
	out := &Document{}
	err := copier.CopyWithOption(out, d, copier.Option{DeepCopy: true})
	if err != nil {
		return nil, fmt.Errorf("deep copy: %w", err)
	}
	// copier leaves nil maps nil, which is fine; empty slices of value
	// structs are copied element-wise including their nested slices.
	return out, nil
}
