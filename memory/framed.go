package memory

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrOutOfMemory is returned when a region refuses to grow to the size
// needed for a framed write.
var ErrOutOfMemory = errors.New("stable memory grow failed")

// frameLenSize is the size of the big-endian length prefix of a framed
// payload.
const frameLenSize = 8

// EnsureBytes grows mem until it holds at least want bytes. The region is
// grown by one page more than strictly needed; subsequent writes rely on
// this headroom, so it must not be reduced.
func EnsureBytes(mem Memory, want uint64) error {
	have := mem.Size() * PageSize
	if have >= want {
		return nil
	}
	if mem.Grow((want-have)/PageSize+1) == -1 {
		metricGrowFailures.Inc()
		return ErrOutOfMemory
	}
	return nil
}

// WriteFramed writes payload at offset, prefixed with its length as a
// big-endian uint64, growing the region as needed.
func WriteFramed(mem Memory, offset uint64, payload []byte) error {
	if err := EnsureBytes(mem, offset+frameLenSize+uint64(len(payload))); err != nil {
		return errors.Wrapf(err, "framed write of %d bytes at offset %d", len(payload), offset)
	}
	var lenBuf [frameLenSize]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(payload)))
	mem.Write(offset, lenBuf[:])
	mem.Write(offset+frameLenSize, payload)
	metricFramedWrites.Inc()
	metricFramedWriteBytes.Add(float64(len(payload)))
	return nil
}

// ReadFramed reads a payload written by WriteFramed at offset. The length
// prefix is trusted: frames are only ever read from regions this engine
// wrote.
func ReadFramed(mem Memory, offset uint64) []byte {
	var lenBuf [frameLenSize]byte
	mem.Read(offset, lenBuf[:])
	n := binary.BigEndian.Uint64(lenBuf[:])

	payload := make([]byte, n)
	mem.Read(offset+frameLenSize, payload)
	return payload
}

// ReadFramedChecked reads a frame from a memory this process did not write,
// such as a region file supplied by a user. The length prefix is validated
// against the memory size before anything is allocated.
func ReadFramedChecked(mem Memory, offset uint64) ([]byte, error) {
	avail := mem.Size() * PageSize
	if offset > avail || avail-offset < frameLenSize {
		return nil, errors.Errorf("no frame at offset %d (size %d bytes)", offset, avail)
	}
	var lenBuf [frameLenSize]byte
	mem.Read(offset, lenBuf[:])
	n := binary.BigEndian.Uint64(lenBuf[:])
	if n > avail-offset-frameLenSize {
		return nil, errors.Errorf("frame at offset %d claims %d payload bytes, only %d available",
			offset, n, avail-offset-frameLenSize)
	}

	payload := make([]byte, n)
	mem.Read(offset+frameLenSize, payload)
	return payload, nil
}
