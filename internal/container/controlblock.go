package container

import (
	"bytes"
	"io"

	"github.com/DeciSym/rdf2hdt/internal/framing"
)

// BlockType identifies the role of a control block in the container
// (spec.md §4.9).
type BlockType byte

// The four control block types emitted by the container writer, in
// the order they appear in the file.
const (
	BlockGlobal     BlockType = 1
	BlockHeader     BlockType = 2
	BlockDictionary BlockType = 3
	BlockTriples    BlockType = 4
)

// Property is an ordered key-value pair. Control block properties are
// kept as a slice, not a map, so serialization is deterministic
// (spec.md §8 invariant 4: byte-identical re-encodes).
type Property struct {
	Key, Value string
}

// ControlBlock is the logical record described in spec.md §4.9; actual
// framing (the cookie byte, null terminators, and the CRC-8 trailer)
// is this package's own concrete choice, since the control-info wire
// format is contract-only in the specification.
type ControlBlock struct {
	Type       BlockType
	Format     string
	Properties []Property
}

const controlBlockCookie = '$'

// WriteControlBlock serializes cb: a cookie byte, the block type, the
// format string, the ";"-joined properties string, each field
// null-terminated, followed by a CRC-8/SMBus trailer over everything
// preceding it.
func WriteControlBlock(w io.Writer, cb ControlBlock) error {
	var body bytes.Buffer
	body.WriteByte(controlBlockCookie)
	body.WriteByte(byte(cb.Type))
	body.WriteString(cb.Format)
	body.WriteByte(0)
	for i, p := range cb.Properties {
		if i > 0 {
			body.WriteByte(';')
		}
		body.WriteString(p.Key)
		body.WriteByte('=')
		body.WriteString(p.Value)
	}
	body.WriteByte(0)

	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	_, err := w.Write([]byte{framing.CRC8SMBus(body.Bytes())})
	return err
}
