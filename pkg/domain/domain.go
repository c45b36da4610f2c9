package domain

import "errors"

// ZoneName identifies the logical partition of the record store that holds
// every record this service manages.
type ZoneName struct {
	s string
}

func NewZoneName(s string) (ZoneName, error) {
	if s == "" {
		return ZoneName{}, errors.New("zone name can't be an empty string")
	}
	return ZoneName{s: s}, nil
}

func MustNewZoneName(s string) ZoneName {
	v, err := NewZoneName(s)
	if err != nil {
		panic(err)
	}
	return v
}

func (z ZoneName) String() string {
	return z.s
}
