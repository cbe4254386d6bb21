package utils

// Value dereferences v, returning the zero value for nil pointers.
// The backend sends null for most optional profile fields.
func Value[T any](v *T) T {
	if v == nil {
		return *new(T)
	}
	return *v
}

func Ptr[T any](v T) *T {
	return &v
}

// OrDash renders an optional value for table output.
func OrDash[T any](v *T, format func(T) string) string {
	if v == nil {
		return "-"
	}
	return format(*v)
}
