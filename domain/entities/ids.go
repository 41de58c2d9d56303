package entities

import "strconv"

// InstanceID identifies a registered script instance within one execution
// domain. Zero is never issued and denotes "no instance".
type InstanceID int64

// IsZero reports whether the id is the unset value.
func (id InstanceID) IsZero() bool {
	return id == 0
}

func (id InstanceID) String() string {
	return strconv.FormatInt(int64(id), 10)
}
