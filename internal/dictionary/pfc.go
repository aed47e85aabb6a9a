package dictionary

import (
	"bytes"

	"github.com/DeciSym/rdf2hdt/internal/framing"
)

const blockSize = 16

// compressPFC implements Plain Front Coding (spec.md §4.3): terms must
// already be sorted. Every 16th term is stored in full at a block
// head; every other term stores the length of the prefix it shares
// with the immediately preceding term (counted in Unicode scalar
// values, not bytes) followed by its own suffix. Every entry,
// including block heads, is 0x00-terminated.
//
// offsets[i] is the byte offset of block i's first entry within the
// returned blob; a final sentinel entry equal to len(compressed) is
// always appended, mirroring the original LogSequence2 implementation.
func compressPFC(sorted []string) (compressed []byte, offsets []uint32) {
	var buf bytes.Buffer
	offsets = make([]uint32, 0, len(sorted)/blockSize+2)

	var prev []rune
	for i, s := range sorted {
		cur := []rune(s)
		if i%blockSize == 0 {
			offsets = append(offsets, uint32(buf.Len()))
			buf.WriteString(s)
			buf.WriteByte(0)
		} else {
			cpl := commonPrefixLen(prev, cur)
			buf.Write(framing.EncodeVbyte(uint64(cpl)))
			buf.WriteString(string(cur[cpl:]))
			buf.WriteByte(0)
		}
		prev = cur
	}
	offsets = append(offsets, uint32(buf.Len()))
	return buf.Bytes(), offsets
}

func commonPrefixLen(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	i := 0
	for i < n && a[i] == b[i] {
		i++
	}
	return i
}
