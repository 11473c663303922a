package index

import (
	"bytes"
	"encoding/binary"
)

// key = invTime(8) + 0x00 + id
//
// Inverting the timestamp makes bbolt's ascending cursor yield newest
// first; equal timestamps fall through to the id bytes, so the on-disk
// order matches the collection's total order (date desc, id asc).
func makeDateIDKey(unixNano int64, id string) []byte {
	buf := make([]byte, 0, 8+1+len(id))

	tmp := make([]byte, 8)
	binary.BigEndian.PutUint64(tmp, ^uint64(unixNano))
	buf = append(buf, tmp...)

	buf = append(buf, 0x00)
	buf = append(buf, []byte(id)...)
	return buf
}

func idFromDateIDKey(k []byte) string {
	if len(k) < 8+2 {
		return ""
	}
	i := bytes.IndexByte(k[8:], 0x00)
	if i < 0 {
		return ""
	}
	pos := 8 + i
	if pos+1 >= len(k) {
		return ""
	}
	return string(k[pos+1:])
}
