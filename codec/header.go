package codec

import (
	"fmt"

	"github.com/tidemark/tidemark/endian"
	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/format"
)

const (
	// MagicNumber marks the start of every encoded buffer; the wire
	// bytes spell "TDMK".
	MagicNumber uint32 = 0x4B4D4454

	// Version is the current wire format version.
	Version uint8 = 1

	// headerSize is the fixed prefix before the meta strings:
	// magic(4) version(1) flag(1) columnCount(2) pointCount(4)
	// seriesID(8) payloadSize(4) crc32(4).
	headerSize = 28
)

// engine is the wire byte order. Little endian throughout.
var engine = endian.GetLittleEndianEngine()

// flag packs the event kind (bits 0-1), the UTC bit (bit 2) and the
// payload compression type (bits 3-5) into one byte. Kind bits 0 mark
// an empty series.
type flag uint8

func newFlag(kind format.Kind, utc bool, compression format.CompressionType) flag {
	f := flag(kind) & 0x3
	if utc {
		f |= 1 << 2
	}
	f |= flag(compression) << 3

	return f
}

func (f flag) kind() format.Kind { return format.Kind(f & 0x3) }

func (f flag) utc() bool { return f&(1<<2) != 0 }

func (f flag) compression() format.CompressionType {
	return format.CompressionType(f >> 3 & 0x7)
}

// header is the fixed-size prefix of an encoded buffer.
type header struct {
	flag        flag
	columnCount uint16
	pointCount  uint32
	seriesID    uint64
	payloadSize uint32
	checksum    uint32
}

func (h header) append(buf []byte) []byte {
	buf = engine.AppendUint32(buf, MagicNumber)
	buf = append(buf, Version, byte(h.flag))
	buf = engine.AppendUint16(buf, h.columnCount)
	buf = engine.AppendUint32(buf, h.pointCount)
	buf = engine.AppendUint64(buf, h.seriesID)
	buf = engine.AppendUint32(buf, h.payloadSize)
	buf = engine.AppendUint32(buf, h.checksum)

	return buf
}

func parseHeader(data []byte) (header, error) {
	if len(data) < headerSize {
		return header{}, fmt.Errorf("%w: buffer shorter than header (%d bytes)", errs.ErrDecode, len(data))
	}
	if magic := engine.Uint32(data[0:4]); magic != MagicNumber {
		return header{}, fmt.Errorf("%w: bad magic 0x%08X", errs.ErrDecode, magic)
	}
	if version := data[4]; version != Version {
		return header{}, fmt.Errorf("%w: unsupported version %d", errs.ErrDecode, version)
	}

	return header{
		flag:        flag(data[5]),
		columnCount: engine.Uint16(data[6:8]),
		pointCount:  engine.Uint32(data[8:12]),
		seriesID:    engine.Uint64(data[12:20]),
		payloadSize: engine.Uint32(data[20:24]),
		checksum:    engine.Uint32(data[24:28]),
	}, nil
}
