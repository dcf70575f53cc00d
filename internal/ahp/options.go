package ahp

// Option customizes a single Compute call.
type Option func(*options)

type options struct {
	tol        float64
	permissive bool
	trusted    bool
}

func defaultOptions() options {
	return options{tol: DefaultTolerance}
}

// WithTolerance sets the tolerance used for the diagonal and reciprocity checks.
// Values that are not positive finite numbers are ignored.
func WithTolerance(tol float64) Option {
	return func(o *options) {
		if validTolerance(tol) {
			o.tol = tol
		}
	}
}

// WithPermissiveRandomIndex makes Compute divide CI by 1 for orders without a
// random index instead of failing with ErrUnsupportedOrder. The result is
// flagged with RandomIndexFallback so callers can tell the CR is not normalized.
func WithPermissiveRandomIndex() Option {
	return func(o *options) { o.permissive = true }
}

// WithoutValidation skips the value checks of Validate. Shape is still checked.
// The caller then guarantees finite, strictly positive, reciprocal input.
func WithoutValidation() Option {
	return func(o *options) { o.trusted = true }
}
