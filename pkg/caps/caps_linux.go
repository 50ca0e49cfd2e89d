// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package caps

import (
	"runtime"

	"github.com/pkg/errors"
)

// lockThread pins the goroutine to its OS thread for operations on
// the calling thread. Capabilities are per-thread kernel state, and
// a multi-syscall sequence must not migrate to another thread
// halfway through.
func lockThread(pid int) func() {
	if pid != 0 {
		return func() {}
	}
	runtime.LockOSThread()
	return runtime.UnlockOSThread
}

// Has reports whether capability c is present in set cset of thread
// pid. Ambient and Bounding sets cannot be checked for other
// threads.
func Has(pid int, cset CapSet, c Capability) (bool, error) {
	defer lockThread(pid)()

	switch {
	case cset == Ambient && pid == 0:
		return ambientHas(c)
	case cset == Bounding && pid == 0:
		return boundHas(c)
	case cset == Effective || cset == Inheritable || cset == Permitted:
		return baseHas(pid, cset, c)
	}
	return false, errors.Wrapf(ErrUnsupported, "checking %s set of pid %d", cset, pid)
}

// Read returns the current content of set cset of thread pid.
// Ambient and Bounding sets cannot be read for other threads.
func Read(pid int, cset CapSet) (Mask, error) {
	defer lockThread(pid)()

	switch {
	case cset == Ambient && pid == 0:
		return ambientRead()
	case cset == Bounding && pid == 0:
		return boundRead()
	case cset == Effective || cset == Inheritable || cset == Permitted:
		return baseRead(pid, cset)
	}
	return 0, errors.Wrapf(ErrUnsupported, "reading %s set of pid %d", cset, pid)
}

// Set replaces the content of set cset of thread pid with exactly
// the capabilities in m. The Ambient set can only be assigned for
// the calling thread, and the assignment is not atomic: it clears
// the set and raises each capability in turn. The Bounding set
// cannot be assigned at all.
func Set(pid int, cset CapSet, m Mask) error {
	defer lockThread(pid)()

	switch {
	case cset == Ambient && pid == 0:
		return ambientSet(m)
	case cset == Effective || cset == Inheritable || cset == Permitted:
		return baseSet(pid, cset, m)
	}
	return errors.Wrapf(ErrUnsupported, "setting %s set of pid %d", cset, pid)
}

// Clear removes all capabilities from set cset of thread pid.
// Ambient and Bounding sets can only be cleared for the calling
// thread. Clearing the Bounding set drops each capability in turn
// and is irreversible.
func Clear(pid int, cset CapSet) error {
	defer lockThread(pid)()

	switch {
	case cset == Ambient && pid == 0:
		return ambientClear()
	case cset == Bounding && pid == 0:
		return boundClear()
	case cset == Effective || cset == Inheritable || cset == Permitted:
		return baseSet(pid, cset, 0)
	}
	return errors.Wrapf(ErrUnsupported, "clearing %s set of pid %d", cset, pid)
}

// Raise adds capability c to set cset of thread pid. The Ambient
// set can only be raised for the calling thread, and only for
// capabilities already present in both Permitted and Inheritable
// (the kernel enforces this). Bounding capabilities cannot be
// raised.
func Raise(pid int, cset CapSet, c Capability) error {
	defer lockThread(pid)()

	switch {
	case cset == Ambient && pid == 0:
		return ambientRaise(c)
	case cset == Effective || cset == Inheritable || cset == Permitted:
		return baseRaise(pid, cset, c)
	}
	return errors.Wrapf(ErrUnsupported, "raising %s in %s set of pid %d", c, cset, pid)
}

// Drop removes capability c from set cset of thread pid. Ambient
// and Bounding capabilities can only be dropped for the calling
// thread; a dropped Bounding capability cannot be regained for the
// lifetime of the thread.
func Drop(pid int, cset CapSet, c Capability) error {
	defer lockThread(pid)()

	switch {
	case cset == Ambient && pid == 0:
		return ambientDrop(c)
	case cset == Bounding && pid == 0:
		return boundDrop(c)
	case cset == Effective || cset == Inheritable || cset == Permitted:
		return baseDrop(pid, cset, c)
	}
	return errors.Wrapf(ErrUnsupported, "dropping %s from %s set of pid %d", c, cset, pid)
}
