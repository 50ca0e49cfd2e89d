// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package caps

import "strings"

// Mask is a set of capabilities encoded as a 64-bit bitmask, one bit
// per capability index. The zero value is the empty set.
type Mask uint64

// NewMask returns the mask containing exactly the given capabilities.
func NewMask(caps ...Capability) Mask {
	var m Mask
	for _, c := range caps {
		m |= c.Mask()
	}
	return m
}

// Has reports whether the mask contains the capability.
func (m Mask) Has(c Capability) bool {
	return m&c.Mask() != 0
}

// Add returns the mask with the capability added.
func (m Mask) Add(c Capability) Mask {
	return m | c.Mask()
}

// Del returns the mask with the capability removed.
func (m Mask) Del(c Capability) Mask {
	return m &^ c.Mask()
}

// List returns the capabilities in the mask, in index order. Bits
// that do not correspond to a capability known to this package are
// ignored, so a mask read from a newer kernel never yields values
// the rest of the package cannot name.
func (m Mask) List() []Capability {
	var caps []Capability
	for i := range capNames {
		if c := Capability(i); m.Has(c) {
			caps = append(caps, c)
		}
	}
	return caps
}

// Len returns the number of known capabilities in the mask.
func (m Mask) Len() int {
	return len(m.List())
}

// String returns the comma-separated canonical names of the
// capabilities in the mask.
func (m Mask) String() string {
	caps := m.List()
	names := make([]string, len(caps))
	for i, c := range caps {
		names[i] = c.String()
	}
	return strings.Join(names, ",")
}
