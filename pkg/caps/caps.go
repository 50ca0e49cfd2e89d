// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package caps reads and manipulates Linux process capability sets:
// the POSIX Effective, Inheritable and Permitted sets as well as the
// Linux-specific Ambient and Bounding sets. See capabilities(7).
//
// All operations take a pid argument selecting which thread's
// capabilities to act on; 0 means the calling thread, following the
// capget(2) convention. Ambient and Bounding sets can only be
// inspected and manipulated for the calling thread, and the Bounding
// set can only ever shrink; illegal combinations fail with
// ErrUnsupported before any syscall is made.
//
// The package keeps no state between calls: every operation queries
// or updates the kernel directly, so each result reflects the
// kernel's state at the moment of the call. Operations that need
// more than one syscall (bulk Ambient/Bounding reads and writes) are
// not atomic; a concurrent actor mutating the same thread's
// capabilities can observe or produce intermediate states.
package caps

// CapSet names one of the five kernel capability sets of a thread.
type CapSet int

// The five capability sets supported by Linux.
const (
	// Ambient capabilities set (since Linux 4.3).
	Ambient CapSet = iota
	// Bounding capabilities set (since Linux 2.6.25).
	Bounding
	// Effective capabilities set (from POSIX).
	Effective
	// Inheritable capabilities set (from POSIX).
	Inheritable
	// Permitted capabilities set (from POSIX).
	Permitted
)

// String returns the lowercase name of the capability set.
func (s CapSet) String() string {
	switch s {
	case Ambient:
		return "ambient"
	case Bounding:
		return "bounding"
	case Effective:
		return "effective"
	case Inheritable:
		return "inheritable"
	case Permitted:
		return "permitted"
	}
	return "unknown"
}
