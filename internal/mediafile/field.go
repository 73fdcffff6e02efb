package mediafile

// Field holds an optional record value. The zero Field is unset.
type Field[T comparable] struct {
	value T
	set   bool
}

// Of returns a populated field, or an unset one when v is the zero value.
func Of[T comparable](v T) Field[T] {
	var f Field[T]
	f.Override(v)
	return f
}

// Value returns the stored value, or the zero value when unset.
func (f Field[T]) Value() T {
	return f.value
}

// IsSet reports whether the field has been populated.
func (f Field[T]) IsSet() bool {
	return f.set
}

// Fill stores v only if the field is still unset and v is not the zero value.
// It reports whether the field was populated by this call.
func (f *Field[T]) Fill(v T) bool {
	var zero T
	if f.set || v == zero {
		return false
	}
	f.value = v
	f.set = true
	return true
}

// Override replaces the stored value unconditionally. A zero v leaves the
// field untouched.
func (f *Field[T]) Override(v T) {
	var zero T
	if v == zero {
		return
	}
	f.value = v
	f.set = true
}

// Clear resets the field to the unset state.
func (f *Field[T]) Clear() {
	var zero T
	f.value = zero
	f.set = false
}

// Text is a string-valued record field.
type Text = Field[string]

// Number is an unsigned integer record field.
type Number = Field[uint32]

// Identity is the 63-bit content-derived album identity.
type Identity = Field[int64]
