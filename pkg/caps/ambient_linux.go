// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package caps

import (
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/sylabs/caps/internal/pkg/sylog"
)

// The Ambient set has no bulk transfer syscall: each capability is
// toggled and probed individually through prctl(PR_CAP_AMBIENT).
// Bulk reads and writes therefore take one prctl per capability and
// are not atomic with respect to other actors on the same thread.

func ambientHas(c Capability) (bool, error) {
	r, err := unix.PrctlRetInt(unix.PR_CAP_AMBIENT, unix.PR_CAP_AMBIENT_IS_SET, uintptr(c.Index()), 0, 0)
	if err != nil {
		return false, errors.Wrapf(err, "while checking %s in ambient set", c)
	}
	return r == 1, nil
}

func ambientRead() (Mask, error) {
	var m Mask
	for _, c := range All().List() {
		has, err := ambientHas(c)
		if err != nil {
			// Kernels older than the tail of the enumeration report
			// EINVAL for capabilities they do not define.
			if errors.Cause(err) == unix.EINVAL {
				continue
			}
			return 0, err
		}
		if has {
			m = m.Add(c)
		}
	}
	return m, nil
}

func ambientRaise(c Capability) error {
	// The kernel refuses unless c is already in both Permitted and
	// Inheritable; that refusal is surfaced, not pre-checked.
	if err := unix.Prctl(unix.PR_CAP_AMBIENT, unix.PR_CAP_AMBIENT_RAISE, uintptr(c.Index()), 0, 0); err != nil {
		return errors.Wrapf(err, "while raising %s in ambient set", c)
	}
	return nil
}

func ambientDrop(c Capability) error {
	if err := unix.Prctl(unix.PR_CAP_AMBIENT, unix.PR_CAP_AMBIENT_LOWER, uintptr(c.Index()), 0, 0); err != nil {
		return errors.Wrapf(err, "while dropping %s from ambient set", c)
	}
	return nil
}

func ambientClear() error {
	if err := unix.Prctl(unix.PR_CAP_AMBIENT, unix.PR_CAP_AMBIENT_CLEAR_ALL, 0, 0, 0); err != nil {
		return errors.Wrap(err, "while clearing ambient set")
	}
	return nil
}

func ambientSet(m Mask) error {
	if err := ambientClear(); err != nil {
		return err
	}
	for _, c := range m.List() {
		if err := ambientRaise(c); err != nil {
			sylog.Warningf("Ambient set left partially assigned after failed raise of %s", c)
			return err
		}
	}
	return nil
}
