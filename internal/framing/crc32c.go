package framing

import "hash/crc32"

var castagnoliTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC-32C (iSCSI / Castagnoli) checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoliTable)
}
