package types

// NoVersion marks a version field that was not specified.
const NoVersion = -1

// Version is a partially specified major.minor.patch triple. Exact is false
// when the textual form carried a trailing "+".
type Version struct {
	Major int
	Minor int
	Patch int
	Exact bool
}

// Any reports whether the version places no constraint at all.
func (v Version) Any() bool {
	return v.Major == NoVersion
}

// Precision returns how many leading fields are specified (0-3).
func (v Version) Precision() int {
	switch {
	case v.Major == NoVersion:
		return 0
	case v.Minor == NoVersion:
		return 1
	case v.Patch == NoVersion:
		return 2
	default:
		return 3
	}
}
