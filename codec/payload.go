package codec

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"

	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/format"
	"github.com/tidemark/tidemark/internal/pool"
)

// Value tags preceding each data cell in the payload.
const (
	tagNil    byte = 0x0
	tagFloat  byte = 0x1
	tagInt    byte = 0x2
	tagBool   byte = 0x3
	tagString byte = 0x4
	// tagObject covers nested structures; the body is a JSON-encoded
	// varstring, matching what the tabular JSON path would carry.
	tagObject byte = 0x5
)

// appendPoints encodes the point rows into buf. Each row starts with
// the kind's key followed by one tagged cell per data column.
func appendPoints(buf *pool.ByteBuffer, kind format.Kind, points [][]any) error {
	for i, row := range points {
		if err := appendKey(buf, kind, row[0]); err != nil {
			return fmt.Errorf("point %d: %w", i, err)
		}
		for _, cell := range row[1:] {
			if err := appendValue(buf, cell); err != nil {
				return fmt.Errorf("point %d: %w", i, err)
			}
		}
	}

	return nil
}

func appendKey(buf *pool.ByteBuffer, kind format.Kind, key any) error {
	switch kind {
	case format.KindTime:
		ms, ok := key.(int64)
		if !ok {
			return fmt.Errorf("time key is %T, want int64", key)
		}
		buf.B = binary.AppendVarint(buf.B, ms)

	case format.KindTimeRange:
		pair, ok := key.([]int64)
		if !ok || len(pair) != 2 {
			return fmt.Errorf("timerange key is %T, want [2]int64", key)
		}
		buf.B = binary.AppendVarint(buf.B, pair[0])
		buf.B = binary.AppendVarint(buf.B, pair[1])

	case format.KindIndex:
		s, ok := key.(string)
		if !ok {
			return fmt.Errorf("index key is %T, want string", key)
		}
		appendVarString(buf, s)

	default:
		return fmt.Errorf("unencodable kind %d", kind)
	}

	return nil
}

func appendValue(buf *pool.ByteBuffer, v any) error {
	switch val := v.(type) {
	case nil:
		_ = buf.WriteByte(tagNil)
	case float64:
		_ = buf.WriteByte(tagFloat)
		buf.B = engine.AppendUint64(buf.B, math.Float64bits(val))
	case float32:
		_ = buf.WriteByte(tagFloat)
		buf.B = engine.AppendUint64(buf.B, math.Float64bits(float64(val)))
	case int:
		_ = buf.WriteByte(tagInt)
		buf.B = binary.AppendVarint(buf.B, int64(val))
	case int32:
		_ = buf.WriteByte(tagInt)
		buf.B = binary.AppendVarint(buf.B, int64(val))
	case int64:
		_ = buf.WriteByte(tagInt)
		buf.B = binary.AppendVarint(buf.B, val)
	case bool:
		_ = buf.WriteByte(tagBool)
		if val {
			_ = buf.WriteByte(1)
		} else {
			_ = buf.WriteByte(0)
		}
	case string:
		_ = buf.WriteByte(tagString)
		appendVarString(buf, val)
	default:
		// Nested objects and anything else JSON-expressible.
		raw, err := json.Marshal(val)
		if err != nil {
			return fmt.Errorf("unencodable value %T: %w", v, err)
		}
		_ = buf.WriteByte(tagObject)
		appendVarString(buf, string(raw))
	}

	return nil
}

func appendVarString(buf *pool.ByteBuffer, s string) {
	buf.B = binary.AppendUvarint(buf.B, uint64(len(s)))
	buf.MustWrite([]byte(s))
}

// reader is a cursor over a decoded payload. Every read failure is an
// errs.ErrDecode.
type reader struct {
	data []byte
	off  int
}

func (r *reader) varint() (int64, error) {
	v, n := binary.Varint(r.data[r.off:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: truncated varint at offset %d", errs.ErrDecode, r.off)
	}
	r.off += n

	return v, nil
}

func (r *reader) uvarint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.off:])
	if n <= 0 {
		return 0, fmt.Errorf("%w: truncated uvarint at offset %d", errs.ErrDecode, r.off)
	}
	r.off += n

	return v, nil
}

func (r *reader) bytes(n int) ([]byte, error) {
	if n < 0 || n > len(r.data)-r.off {
		return nil, fmt.Errorf("%w: truncated field at offset %d", errs.ErrDecode, r.off)
	}
	b := r.data[r.off : r.off+n]
	r.off += n

	return b, nil
}

func (r *reader) byte() (byte, error) {
	b, err := r.bytes(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

func (r *reader) varString() (string, error) {
	n, err := r.uvarint()
	if err != nil {
		return "", err
	}
	// Check against the remaining bytes while still unsigned: a hostile
	// length can exceed the int range and must not reach the slice
	// expression.
	if n > uint64(len(r.data)-r.off) {
		return "", fmt.Errorf("%w: declared length %d exceeds %d remaining bytes at offset %d",
			errs.ErrDecode, n, len(r.data)-r.off, r.off)
	}
	b, err := r.bytes(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (r *reader) key(kind format.Kind) (any, error) {
	switch kind {
	case format.KindTime:
		return r.varint()

	case format.KindTimeRange:
		begin, err := r.varint()
		if err != nil {
			return nil, err
		}
		end, err := r.varint()
		if err != nil {
			return nil, err
		}

		return []int64{begin, end}, nil

	case format.KindIndex:
		return r.varString()

	default:
		return nil, fmt.Errorf("%w: unknown kind %d", errs.ErrDecode, kind)
	}
}

func (r *reader) value() (any, error) {
	tag, err := r.byte()
	if err != nil {
		return nil, err
	}

	switch tag {
	case tagNil:
		return nil, nil

	case tagFloat:
		b, err := r.bytes(8)
		if err != nil {
			return nil, err
		}

		return math.Float64frombits(engine.Uint64(b)), nil

	case tagInt:
		return r.varint()

	case tagBool:
		b, err := r.byte()
		if err != nil {
			return nil, err
		}

		return b != 0, nil

	case tagString:
		return r.varString()

	case tagObject:
		raw, err := r.varString()
		if err != nil {
			return nil, err
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			return nil, fmt.Errorf("%w: object cell: %w", errs.ErrDecode, err)
		}

		return v, nil

	default:
		return nil, fmt.Errorf("%w: unknown value tag 0x%02X at offset %d", errs.ErrDecode, tag, r.off-1)
	}
}
