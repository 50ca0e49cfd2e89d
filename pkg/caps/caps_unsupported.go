// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

//go:build !linux
// +build !linux

package caps

import (
	"fmt"
	"runtime"
)

// ErrCapNotSupported is returned by every kernel-facing operation on
// platforms without Linux capabilities.
var ErrCapNotSupported = fmt.Errorf("capabilities not supported on this OS: %s", runtime.GOOS)

// Has reports whether capability c is present in set cset of thread pid.
func Has(pid int, cset CapSet, c Capability) (bool, error) {
	return false, ErrCapNotSupported
}

// Read returns the current content of set cset of thread pid.
func Read(pid int, cset CapSet) (Mask, error) {
	return 0, ErrCapNotSupported
}

// Set replaces the content of set cset of thread pid with m.
func Set(pid int, cset CapSet, m Mask) error {
	return ErrCapNotSupported
}

// Clear removes all capabilities from set cset of thread pid.
func Clear(pid int, cset CapSet) error {
	return ErrCapNotSupported
}

// Raise adds capability c to set cset of thread pid.
func Raise(pid int, cset CapSet, c Capability) error {
	return ErrCapNotSupported
}

// Drop removes capability c from set cset of thread pid.
func Drop(pid int, cset CapSet, c Capability) error {
	return ErrCapNotSupported
}

// LastCap returns the highest capability index the running kernel defines.
func LastCap() (Capability, error) {
	return 0, ErrCapNotSupported
}

// Supported returns the mask of capabilities defined by the running kernel.
func Supported() (Mask, error) {
	return 0, ErrCapNotSupported
}
