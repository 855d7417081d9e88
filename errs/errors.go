// Package errs defines the sentinel error values shared across tidemark
// packages.
//
// Callers should match errors with errors.Is rather than string
// comparison; call sites wrap these sentinels with context using
// fmt.Errorf("%w: ...").
package errs

import "errors"

var (
	// ErrInvalidSpan indicates a window span string that does not match
	// the <count><unit> grammar (unit one of s, m, h, d).
	ErrInvalidSpan = errors.New("invalid window span")

	// ErrInvalidIndex indicates an index string that is neither a fixed
	// "<span>-<position>" form nor a calendar form (YYYY, YYYY-MM,
	// YYYY-MM-DD).
	ErrInvalidIndex = errors.New("invalid index string")

	// ErrNonChronological indicates events supplied out of time order on
	// a strict construction path.
	ErrNonChronological = errors.New("events are not chronological")

	// ErrMixedKinds indicates a collection constructed from events of
	// more than one kind.
	ErrMixedKinds = errors.New("mixed event kinds")

	// ErrUnknownKind indicates an event kind tag that is not one of
	// time, timerange or index.
	ErrUnknownKind = errors.New("unknown event kind")

	// ErrInvalidFillMethod indicates an unrecognized fill method.
	ErrInvalidFillMethod = errors.New("invalid fill method")

	// ErrInvalidAlignMethod indicates an unrecognized alignment method.
	ErrInvalidAlignMethod = errors.New("invalid align method")

	// ErrInvalidEmitPolicy indicates an emit policy other than the batch
	// discard policy.
	ErrInvalidEmitPolicy = errors.New("invalid emit policy")

	// ErrMissingWindow indicates a windowed operation configured without
	// a window specification.
	ErrMissingWindow = errors.New("missing window specification")

	// ErrMissingAggregation indicates an aggregation stage configured
	// without any output field specification.
	ErrMissingAggregation = errors.New("missing aggregation specification")

	// ErrMissingReducer indicates a reduce operation configured without
	// a reducer function.
	ErrMissingReducer = errors.New("missing reducer")

	// ErrEmptySeriesList indicates a cross-series operation invoked with
	// no input series.
	ErrEmptySeriesList = errors.New("empty series list")

	// ErrInvalidPercentile indicates a percentile outside [0, 100] or a
	// quantile split below 2.
	ErrInvalidPercentile = errors.New("invalid percentile")

	// ErrInvalidInterp indicates an unrecognized percentile
	// interpolation mode.
	ErrInvalidInterp = errors.New("invalid interpolation mode")

	// ErrColumnMismatch indicates a tabular point whose arity does not
	// match the declared columns.
	ErrColumnMismatch = errors.New("point width does not match columns")

	// ErrDecode indicates a binary payload that does not match the
	// expected schema.
	ErrDecode = errors.New("schema decode failed")
)
