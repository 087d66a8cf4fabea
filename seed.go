package fixture

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// DeriveSeed returns the seed of the value generated for fieldName inside a
// value generated with the parent seed. It is a pure function of its inputs.
func DeriveSeed(fieldName string, parent int64) int64 {
	buf := make([]byte, 0, len(fieldName)+8)
	buf = append(buf, fieldName...)
	buf = binary.LittleEndian.AppendUint64(buf, uint64(parent))
	return int64(xxhash.Sum64(buf))
}
