// Package codec implements the binary interchange format for series.
//
// An encoded buffer is self-describing: a fixed header carrying the
// format version, the event kind, the UTC flag, the payload compression
// type and a CRC of the compressed payload, followed by the series
// metadata and column names as varstrings, followed by the compressed
// point payload. Decoding rebuilds the tabular wire form and re-enters
// the same strict construction path as JSON input, so both entry points
// share one invariant surface.
package codec

import (
	"fmt"
	"hash/crc32"
	"sort"

	"github.com/tidemark/tidemark/collection"
	"github.com/tidemark/tidemark/compress"
	"github.com/tidemark/tidemark/errs"
	"github.com/tidemark/tidemark/format"
	"github.com/tidemark/tidemark/internal/hash"
	"github.com/tidemark/tidemark/internal/options"
	"github.com/tidemark/tidemark/internal/pool"
	"github.com/tidemark/tidemark/series"
)

type config struct {
	compression format.CompressionType
}

// Option adjusts how a series is encoded.
type Option = options.Option[*config]

// WithCompression selects the payload compression type. The default is
// Zstd.
func WithCompression(compression format.CompressionType) Option {
	return options.New(func(cfg *config) error {
		if _, err := compress.GetCodec(compression); err != nil {
			return err
		}
		cfg.compression = compression

		return nil
	})
}

// Encode serializes a series into a self-describing binary buffer.
func Encode(ts series.TimeSeries, opts ...Option) ([]byte, error) {
	cfg := &config{compression: format.CompressionZstd}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	w := ts.Wire()

	var kind format.Kind
	if len(w.Columns) > 0 {
		k, ok := format.KindFromColumn(w.Columns[0])
		if !ok {
			return nil, fmt.Errorf("%w: leading column %q", errs.ErrUnknownKind, w.Columns[0])
		}
		kind = k
	}

	payload := pool.GetBuffer()
	defer pool.PutBuffer(payload)
	if err := appendPoints(payload, kind, w.Points); err != nil {
		return nil, err
	}

	codec, err := compress.GetCodec(cfg.compression)
	if err != nil {
		return nil, err
	}
	compressed, err := codec.Compress(payload.Bytes())
	if err != nil {
		return nil, err
	}

	h := header{
		flag:        newFlag(kind, w.UTC, cfg.compression),
		columnCount: uint16(len(w.Columns)),
		pointCount:  uint32(len(w.Points)),
		seriesID:    hash.ID(w.Name),
		payloadSize: uint32(len(compressed)),
		checksum:    crc32.ChecksumIEEE(compressed),
	}

	meta := pool.GetBuffer()
	defer pool.PutBuffer(meta)
	appendVarString(meta, w.Name)
	appendVarString(meta, w.Index)
	for _, col := range w.Columns {
		appendVarString(meta, col)
	}

	out := make([]byte, 0, headerSize+meta.Len()+len(compressed))
	out = h.append(out)
	out = append(out, meta.Bytes()...)
	out = append(out, compressed...)

	return out, nil
}

// Decode deserializes a buffer produced by Encode. Malformed buffers
// fail hard with errs.ErrDecode-wrapped errors; buffers that parse but
// violate construction invariants fail with the matching construction
// sentinel.
func Decode(data []byte) (series.TimeSeries, error) {
	h, err := parseHeader(data)
	if err != nil {
		return series.TimeSeries{}, err
	}

	r := &reader{data: data, off: headerSize}
	name, err := r.varString()
	if err != nil {
		return series.TimeSeries{}, err
	}
	index, err := r.varString()
	if err != nil {
		return series.TimeSeries{}, err
	}
	columns := make([]string, h.columnCount)
	for i := range columns {
		if columns[i], err = r.varString(); err != nil {
			return series.TimeSeries{}, err
		}
	}

	compressed, err := r.bytes(int(h.payloadSize))
	if err != nil {
		return series.TimeSeries{}, err
	}
	if sum := crc32.ChecksumIEEE(compressed); sum != h.checksum {
		return series.TimeSeries{}, fmt.Errorf("%w: checksum mismatch (got 0x%08X, want 0x%08X)",
			errs.ErrDecode, sum, h.checksum)
	}

	codec, err := compress.GetCodec(h.flag.compression())
	if err != nil {
		return series.TimeSeries{}, fmt.Errorf("%w: %w", errs.ErrDecode, err)
	}
	payload, err := codec.Decompress(compressed)
	if err != nil {
		return series.TimeSeries{}, fmt.Errorf("%w: %w", errs.ErrDecode, err)
	}

	meta := series.Meta{Name: name, UTC: h.flag.utc(), Index: index}
	if h.columnCount == 0 {
		empty, _ := collection.New()
		return series.New(empty, meta), nil
	}

	points, err := parsePoints(payload, h.flag.kind(), int(h.pointCount), int(h.columnCount))
	if err != nil {
		return series.TimeSeries{}, err
	}

	return series.FromWire(series.Wire{
		Name:    name,
		UTC:     meta.UTC,
		Index:   index,
		Columns: columns,
		Points:  points,
	})
}

// DecodeAll decodes a set of buffers and returns the series ordered by
// their range begin, empty series first. The per-buffer error contract
// matches Decode; the first failure aborts.
func DecodeAll(buffers [][]byte) ([]series.TimeSeries, error) {
	out := make([]series.TimeSeries, 0, len(buffers))
	for i, data := range buffers {
		ts, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("buffer %d: %w", i, err)
		}
		out = append(out, ts)
	}

	sort.SliceStable(out, func(i, j int) bool {
		ri, iOK := out[i].Range()
		rj, jOK := out[j].Range()
		if !iOK || !jOK {
			return !iOK && jOK
		}

		return ri.Begin().Before(rj.Begin())
	})

	return out, nil
}

func parsePoints(payload []byte, kind format.Kind, pointCount, columnCount int) ([][]any, error) {
	// Every row costs at least one byte per column (one for the key,
	// one tag per data cell), so a declared count the payload cannot
	// hold is rejected before any row allocation.
	if int64(pointCount)*int64(columnCount) > int64(len(payload)) {
		return nil, fmt.Errorf("%w: %d points of %d columns cannot fit %d payload bytes",
			errs.ErrDecode, pointCount, columnCount, len(payload))
	}

	r := &reader{data: payload}
	points := make([][]any, pointCount)
	for i := range points {
		row := make([]any, columnCount)
		key, err := r.key(kind)
		if err != nil {
			return nil, fmt.Errorf("point %d: %w", i, err)
		}
		row[0] = key
		for j := 1; j < columnCount; j++ {
			if row[j], err = r.value(); err != nil {
				return nil, fmt.Errorf("point %d: %w", i, err)
			}
		}
		points[i] = row
	}
	if r.off != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing payload bytes", errs.ErrDecode, len(payload)-r.off)
	}

	return points, nil
}
