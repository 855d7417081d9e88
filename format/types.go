package format

type (
	// Kind identifies the time representation of an event.
	Kind uint8

	// CompressionType identifies the compression applied to a codec
	// payload.
	CompressionType uint8
)

const (
	// KindTime represents a point-in-time event keyed by an instant.
	KindTime Kind = 0x1
	// KindTimeRange represents an event keyed by a [begin, end] interval.
	KindTimeRange Kind = 0x2
	// KindIndex represents an event keyed by a bucket index string.
	KindIndex Kind = 0x3

	CompressionNone   CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd   CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2     CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4    CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionSnappy CompressionType = 0x5 // CompressionSnappy represents Snappy compression.
)

// Column names that select the event kind in tabular input.
const (
	ColumnTime      = "time"
	ColumnTimeRange = "timerange"
	ColumnIndex     = "index"
)

func (k Kind) String() string {
	switch k {
	case KindTime:
		return ColumnTime
	case KindTimeRange:
		return ColumnTimeRange
	case KindIndex:
		return ColumnIndex
	default:
		return "Unknown"
	}
}

// KindFromColumn maps a leading tabular column name to its event kind.
// The boolean result is false for unrecognized names.
func KindFromColumn(name string) (Kind, bool) {
	switch name {
	case ColumnTime:
		return KindTime, true
	case ColumnTimeRange:
		return KindTimeRange, true
	case ColumnIndex:
		return KindIndex, true
	default:
		return 0, false
	}
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionSnappy:
		return "Snappy"
	default:
		return "Unknown"
	}
}
