package ptr

// New returns a pointer to v.
func New[T any](v T) *T { return &v }

// Deref returns the value p points to, or def when p is nil.
func Deref[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
