package endpoints

import (
	"encoding/binary"
	"fmt"

	"github.com/CrowdStrike/csproto"
)

// Argument and reply blobs are protobuf-encoded tuples: one field per tuple
// position. Memory ids travel as varints, offsets and lengths as fixed64,
// payloads as length-delimited bytes.
//
// Tuple field numbers
const (
	fieldMemoryID = 1
	fieldOffset   = 2
	fieldLength   = 3
	fieldData     = 2
	fieldWriteOff = 2
	fieldWriteDat = 3
	fieldPages    = 2
	fieldReply    = 1
)

type errUnexpectedWireType struct {
	tag      int
	wireType csproto.WireType
	expected csproto.WireType
}

func (e errUnexpectedWireType) Error() string {
	return fmt.Sprintf("unexpected wiretype for tag %d: got %v, expected %v",
		e.tag, e.wireType, e.expected)
}

func expectWT(tag int, got, exp csproto.WireType) error {
	if got != exp {
		return errUnexpectedWireType{tag: tag, wireType: got, expected: exp}
	}
	return nil
}

func getVarint(d *csproto.Decoder, tag int, wireType csproto.WireType) (uint64, error) {
	if err := expectWT(tag, wireType, csproto.WireTypeVarint); err != nil {
		return 0, err
	}
	return d.DecodeUInt64()
}

func getFixed64(d *csproto.Decoder, tag int, wireType csproto.WireType) (uint64, error) {
	if err := expectWT(tag, wireType, csproto.WireTypeFixed64); err != nil {
		return 0, err
	}
	return d.DecodeFixed64()
}

func getBytes(d *csproto.Decoder, tag int, wireType csproto.WireType) ([]byte, error) {
	if err := expectWT(tag, wireType, csproto.WireTypeLengthDelimited); err != nil {
		return nil, err
	}
	val, err := d.DecodeBytes()
	if err != nil {
		return nil, err
	}
	n := len(val)
	return val[0:n:n], nil
}

func putVarint(b []byte, tag int, v uint64) int {
	offset := csproto.EncodeTag(b, tag, csproto.WireTypeVarint)
	offset += csproto.EncodeVarint(b[offset:], v)
	return offset
}

func putFixed64(b []byte, tag int, v uint64) int {
	offset := csproto.EncodeTag(b, tag, csproto.WireTypeFixed64)
	binary.LittleEndian.PutUint64(b[offset:offset+8], v)
	return offset + 8
}

func putBytes(b []byte, tag int, data []byte) int {
	offset := csproto.EncodeTag(b, tag, csproto.WireTypeLengthDelimited)
	offset += csproto.EncodeVarint(b[offset:], uint64(len(data)))
	offset += copy(b[offset:], data)
	return offset
}

// scalarArgSize is enough room for a handful of tagged scalar fields.
const scalarArgSize = 64

// MarshalIDArg encodes a (memory_id) argument tuple.
func MarshalIDArg(id uint8) []byte {
	b := make([]byte, scalarArgSize)
	offset := putVarint(b, fieldMemoryID, uint64(id))
	return b[:offset]
}

// UnmarshalIDArg decodes a (memory_id) argument tuple.
func UnmarshalIDArg(data []byte) (id uint8, err error) {
	d := csproto.NewDecoder(data)
	d.SetMode(csproto.DecoderModeFast)
	for d.More() {
		tag, wireType, err := d.DecodeTag()
		if err != nil {
			return 0, err
		}
		switch tag {
		case fieldMemoryID:
			v, err := getVarint(d, tag, wireType)
			if err != nil {
				return 0, err
			}
			id = uint8(v)
		default:
			if _, err := d.Skip(tag, wireType); err != nil {
				return 0, err
			}
		}
	}
	return id, nil
}

// MarshalRangeArg encodes a (memory_id, offset, length) argument tuple.
func MarshalRangeArg(id uint8, offset, length uint64) []byte {
	b := make([]byte, scalarArgSize)
	n := putVarint(b, fieldMemoryID, uint64(id))
	n += putFixed64(b[n:], fieldOffset, offset)
	n += putFixed64(b[n:], fieldLength, length)
	return b[:n]
}

// UnmarshalRangeArg decodes a (memory_id, offset, length) argument tuple.
func UnmarshalRangeArg(data []byte) (id uint8, offset, length uint64, err error) {
	d := csproto.NewDecoder(data)
	d.SetMode(csproto.DecoderModeFast)
	for d.More() {
		tag, wireType, err := d.DecodeTag()
		if err != nil {
			return 0, 0, 0, err
		}
		switch tag {
		case fieldMemoryID:
			v, err := getVarint(d, tag, wireType)
			if err != nil {
				return 0, 0, 0, err
			}
			id = uint8(v)
		case fieldOffset:
			if offset, err = getFixed64(d, tag, wireType); err != nil {
				return 0, 0, 0, err
			}
		case fieldLength:
			if length, err = getFixed64(d, tag, wireType); err != nil {
				return 0, 0, 0, err
			}
		default:
			if _, err := d.Skip(tag, wireType); err != nil {
				return 0, 0, 0, err
			}
		}
	}
	return id, offset, length, nil
}

// MarshalBlobArg encodes a (memory_id, blob) argument tuple.
func MarshalBlobArg(id uint8, data []byte) []byte {
	b := make([]byte, scalarArgSize+len(data))
	n := putVarint(b, fieldMemoryID, uint64(id))
	n += putBytes(b[n:], fieldData, data)
	return b[:n]
}

// UnmarshalBlobArg decodes a (memory_id, blob) argument tuple.
func UnmarshalBlobArg(data []byte) (id uint8, blob []byte, err error) {
	d := csproto.NewDecoder(data)
	d.SetMode(csproto.DecoderModeFast)
	for d.More() {
		tag, wireType, err := d.DecodeTag()
		if err != nil {
			return 0, nil, err
		}
		switch tag {
		case fieldMemoryID:
			v, err := getVarint(d, tag, wireType)
			if err != nil {
				return 0, nil, err
			}
			id = uint8(v)
		case fieldData:
			if blob, err = getBytes(d, tag, wireType); err != nil {
				return 0, nil, err
			}
		default:
			if _, err := d.Skip(tag, wireType); err != nil {
				return 0, nil, err
			}
		}
	}
	return id, blob, nil
}

// MarshalWriteArg encodes a (memory_id, offset, blob) argument tuple.
func MarshalWriteArg(id uint8, offset uint64, data []byte) []byte {
	b := make([]byte, scalarArgSize+len(data))
	n := putVarint(b, fieldMemoryID, uint64(id))
	n += putFixed64(b[n:], fieldWriteOff, offset)
	n += putBytes(b[n:], fieldWriteDat, data)
	return b[:n]
}

// UnmarshalWriteArg decodes a (memory_id, offset, blob) argument tuple.
func UnmarshalWriteArg(data []byte) (id uint8, offset uint64, blob []byte, err error) {
	d := csproto.NewDecoder(data)
	d.SetMode(csproto.DecoderModeFast)
	for d.More() {
		tag, wireType, err := d.DecodeTag()
		if err != nil {
			return 0, 0, nil, err
		}
		switch tag {
		case fieldMemoryID:
			v, err := getVarint(d, tag, wireType)
			if err != nil {
				return 0, 0, nil, err
			}
			id = uint8(v)
		case fieldWriteOff:
			if offset, err = getFixed64(d, tag, wireType); err != nil {
				return 0, 0, nil, err
			}
		case fieldWriteDat:
			if blob, err = getBytes(d, tag, wireType); err != nil {
				return 0, 0, nil, err
			}
		default:
			if _, err := d.Skip(tag, wireType); err != nil {
				return 0, 0, nil, err
			}
		}
	}
	return id, offset, blob, nil
}

// MarshalPagesArg encodes a (memory_id, pages) argument tuple.
func MarshalPagesArg(id uint8, pages uint64) []byte {
	b := make([]byte, scalarArgSize)
	n := putVarint(b, fieldMemoryID, uint64(id))
	n += putFixed64(b[n:], fieldPages, pages)
	return b[:n]
}

// UnmarshalPagesArg decodes a (memory_id, pages) argument tuple.
func UnmarshalPagesArg(data []byte) (id uint8, pages uint64, err error) {
	d := csproto.NewDecoder(data)
	d.SetMode(csproto.DecoderModeFast)
	for d.More() {
		tag, wireType, err := d.DecodeTag()
		if err != nil {
			return 0, 0, err
		}
		switch tag {
		case fieldMemoryID:
			v, err := getVarint(d, tag, wireType)
			if err != nil {
				return 0, 0, err
			}
			id = uint8(v)
		case fieldPages:
			if pages, err = getFixed64(d, tag, wireType); err != nil {
				return 0, 0, err
			}
		default:
			if _, err := d.Skip(tag, wireType); err != nil {
				return 0, 0, err
			}
		}
	}
	return id, pages, nil
}

// MarshalU64Reply encodes a (nat64) reply tuple.
func MarshalU64Reply(v uint64) []byte {
	b := make([]byte, scalarArgSize)
	n := putFixed64(b, fieldReply, v)
	return b[:n]
}

// UnmarshalU64Reply decodes a (nat64) reply tuple.
func UnmarshalU64Reply(data []byte) (v uint64, err error) {
	d := csproto.NewDecoder(data)
	d.SetMode(csproto.DecoderModeFast)
	for d.More() {
		tag, wireType, err := d.DecodeTag()
		if err != nil {
			return 0, err
		}
		if tag != fieldReply {
			if _, err := d.Skip(tag, wireType); err != nil {
				return 0, err
			}
			continue
		}
		if v, err = getFixed64(d, tag, wireType); err != nil {
			return 0, err
		}
	}
	return v, nil
}

// MarshalI64Reply encodes an (int64) reply tuple.
func MarshalI64Reply(v int64) []byte {
	b := make([]byte, scalarArgSize)
	n := putVarint(b, fieldReply, uint64(v))
	return b[:n]
}

// UnmarshalI64Reply decodes an (int64) reply tuple.
func UnmarshalI64Reply(data []byte) (v int64, err error) {
	d := csproto.NewDecoder(data)
	d.SetMode(csproto.DecoderModeFast)
	for d.More() {
		tag, wireType, err := d.DecodeTag()
		if err != nil {
			return 0, err
		}
		if tag != fieldReply {
			if _, err := d.Skip(tag, wireType); err != nil {
				return 0, err
			}
			continue
		}
		u, err := getVarint(d, tag, wireType)
		if err != nil {
			return 0, err
		}
		v = int64(u)
	}
	return v, nil
}

// MarshalBlobReply encodes a (blob) reply tuple.
func MarshalBlobReply(data []byte) []byte {
	b := make([]byte, scalarArgSize+len(data))
	n := putBytes(b, fieldReply, data)
	return b[:n]
}

// UnmarshalBlobReply decodes a (blob) reply tuple.
func UnmarshalBlobReply(data []byte) (blob []byte, err error) {
	d := csproto.NewDecoder(data)
	d.SetMode(csproto.DecoderModeFast)
	for d.More() {
		tag, wireType, err := d.DecodeTag()
		if err != nil {
			return nil, err
		}
		if tag != fieldReply {
			if _, err := d.Skip(tag, wireType); err != nil {
				return nil, err
			}
			continue
		}
		if blob, err = getBytes(d, tag, wireType); err != nil {
			return nil, err
		}
	}
	return blob, nil
}

// MarshalUnitReply encodes the empty reply tuple.
func MarshalUnitReply() []byte {
	return []byte{}
}
