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

// The Bounding set only shrinks: prctl(PR_CAPBSET_DROP) removes a
// capability for the rest of the thread's lifetime and the kernel
// offers nothing to put it back. Reads are per-capability probes
// with prctl(PR_CAPBSET_READ).

func boundHas(c Capability) (bool, error) {
	r, err := unix.PrctlRetInt(unix.PR_CAPBSET_READ, uintptr(c.Index()), 0, 0, 0)
	if err != nil {
		return false, errors.Wrapf(err, "while checking %s in bounding set", c)
	}
	return r == 1, nil
}

func boundRead() (Mask, error) {
	var m Mask
	for _, c := range All().List() {
		has, err := boundHas(c)
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

func boundDrop(c Capability) error {
	if err := unix.Prctl(unix.PR_CAPBSET_DROP, uintptr(c.Index()), 0, 0, 0); err != nil {
		return errors.Wrapf(err, "while dropping %s from bounding set", c)
	}
	return nil
}

func boundClear() error {
	current, err := boundRead()
	if err != nil {
		return err
	}
	for _, c := range current.List() {
		if err := boundDrop(c); err != nil {
			sylog.Warningf("Bounding set left partially cleared after failed drop of %s", c)
			return err
		}
	}
	return nil
}
