package compress

// ZstdCompressor compresses payloads with Zstandard. Best ratio of the
// built-in codecs; the right pick for archival and transport where
// bytes on the wire dominate.
//
// Two implementations exist behind build tags: a cgo binding when cgo
// is available, and a pure-Go fallback otherwise. Both produce
// standard zstd frames and interoperate freely.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec with default settings.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}
