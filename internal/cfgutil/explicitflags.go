// Copyright (c) 2016-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import "strconv"

// ExplicitUint32 is a uint32 value implementing the flags.Marshaler and
// flags.Unmarshaler interfaces so it may be used as a config struct field.  It
// records whether the value was explicitly set by the flags package, so a
// default can be replaced by a better value found later (such as the mined
// height reported by a node) while a user choice is left alone.
type ExplicitUint32 struct {
	Value         uint32
	explicitlySet bool
}

// NewExplicitUint32 creates a uint32 flag with the provided default value.
func NewExplicitUint32(defaultValue uint32) *ExplicitUint32 {
	return &ExplicitUint32{Value: defaultValue}
}

// ExplicitlySet returns whether the flag was explicitly set through the
// flags.Unmarshaler interface.
func (e *ExplicitUint32) ExplicitlySet() bool { return e.explicitlySet }

// MarshalFlag implements the flags.Marshaler interface.
func (e *ExplicitUint32) MarshalFlag() (string, error) {
	return strconv.FormatUint(uint64(e.Value), 10), nil
}

// UnmarshalFlag implements the flags.Unmarshaler interface.
func (e *ExplicitUint32) UnmarshalFlag(value string) error {
	v, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return err
	}
	e.Value = uint32(v)
	e.explicitlySet = true
	return nil
}
