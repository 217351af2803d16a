package rendering

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/go-drift/drift-tui/pkg/graphics"
)

// DisplayList is an immutable, ordered list of paint operations for one
// frame. Later operations overwrite earlier ones where they overlap.
type DisplayList struct {
	ops  []Op
	size graphics.Size
}

// NewDisplayList builds a display list from ops.
func NewDisplayList(size graphics.Size, ops ...Op) *DisplayList {
	copied := make([]Op, len(ops))
	copy(copied, ops)
	return &DisplayList{ops: copied, size: size}
}

// Size returns the surface size the list was recorded for.
func (d *DisplayList) Size() graphics.Size {
	return d.size
}

// Ops returns a copy of the recorded operations.
func (d *DisplayList) Ops() []Op {
	ops := make([]Op, len(d.ops))
	copy(ops, d.ops)
	return ops
}

// Len returns the number of operations.
func (d *DisplayList) Len() int {
	return len(d.ops)
}

// Apply replays the operations onto buf.
func (d *DisplayList) Apply(buf *CellBuffer) {
	for _, op := range d.ops {
		buf.apply(op)
	}
}

type wireDisplayList struct {
	Size graphics.Size `msgpack:"size"`
	Ops  []Op          `msgpack:"ops"`
}

var (
	_ msgpack.CustomEncoder = (*DisplayList)(nil)
	_ msgpack.CustomDecoder = (*DisplayList)(nil)
)

// EncodeMsgpack implements msgpack.CustomEncoder.
func (d *DisplayList) EncodeMsgpack(enc *msgpack.Encoder) error {
	return enc.Encode(wireDisplayList{Size: d.size, Ops: d.ops})
}

// DecodeMsgpack implements msgpack.CustomDecoder.
func (d *DisplayList) DecodeMsgpack(dec *msgpack.Decoder) error {
	var wire wireDisplayList
	if err := dec.Decode(&wire); err != nil {
		return err
	}
	d.size = wire.Size
	d.ops = wire.Ops
	return nil
}
