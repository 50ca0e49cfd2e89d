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

// The POSIX sets (Effective, Inheritable, Permitted) are transferred
// with capget(2)/capset(2) as one versioned header plus up to two
// 32-bit words per set. The struct format has changed over kernel
// history, so every call first asks the kernel which version it
// speaks before moving real data. capset(2) always carries all three
// sets at once, which makes every mutation a read-modify-write of
// the full payload.

// capHeader probes the kernel's preferred capability struct version
// for pid. A capget call with a nil data pointer is the documented
// probe: the kernel writes its preferred version into the header.
func capHeader(pid int) (unix.CapUserHeader, error) {
	hdr := unix.CapUserHeader{Version: 0, Pid: int32(pid)}
	if err := unix.Capget(&hdr, nil); err != nil {
		return hdr, errors.Wrapf(err, "while probing capability version for pid %d", pid)
	}
	sylog.Debugf("Kernel prefers capability struct version %#x", hdr.Version)
	return hdr, nil
}

// capGet returns the negotiated header and the raw three-set payload
// of pid.
func capGet(pid int) (unix.CapUserHeader, [2]unix.CapUserData, error) {
	var data [2]unix.CapUserData

	hdr, err := capHeader(pid)
	if err != nil {
		return hdr, data, err
	}
	if err := unix.Capget(&hdr, &data[0]); err != nil {
		return hdr, data, errors.Wrapf(err, "while getting capabilities of pid %d", pid)
	}
	return hdr, data, nil
}

// capUnpack assembles the 64-bit mask of one POSIX set from the two
// 32-bit payload words.
func capUnpack(data [2]unix.CapUserData, cset CapSet) Mask {
	switch cset {
	case Effective:
		return Mask(uint64(data[0].Effective) | uint64(data[1].Effective)<<32)
	case Inheritable:
		return Mask(uint64(data[0].Inheritable) | uint64(data[1].Inheritable)<<32)
	case Permitted:
		return Mask(uint64(data[0].Permitted) | uint64(data[1].Permitted)<<32)
	}
	return 0
}

// capPack writes the 64-bit mask of one POSIX set into the payload
// words, leaving the other two sets untouched.
func capPack(data *[2]unix.CapUserData, cset CapSet, m Mask) {
	lo, hi := uint32(m), uint32(m>>32)
	switch cset {
	case Effective:
		data[0].Effective, data[1].Effective = lo, hi
	case Inheritable:
		data[0].Inheritable, data[1].Inheritable = lo, hi
	case Permitted:
		data[0].Permitted, data[1].Permitted = lo, hi
	}
}

func baseHas(pid int, cset CapSet, c Capability) (bool, error) {
	m, err := baseRead(pid, cset)
	if err != nil {
		return false, err
	}
	return m.Has(c), nil
}

func baseRead(pid int, cset CapSet) (Mask, error) {
	_, data, err := capGet(pid)
	if err != nil {
		return 0, err
	}
	// Bits for capabilities this package does not know about are
	// dropped from snapshots. The mutation paths below work on the
	// raw words instead, so unknown bits survive read-modify-write.
	return capUnpack(data, cset) & All(), nil
}

func baseSet(pid int, cset CapSet, m Mask) error {
	hdr, data, err := capGet(pid)
	if err != nil {
		return err
	}
	capPack(&data, cset, m)
	if err := unix.Capset(&hdr, &data[0]); err != nil {
		return errors.Wrapf(err, "while setting %s set of pid %d", cset, pid)
	}
	return nil
}

func baseRaise(pid int, cset CapSet, c Capability) error {
	hdr, data, err := capGet(pid)
	if err != nil {
		return err
	}
	capPack(&data, cset, capUnpack(data, cset).Add(c))
	if err := unix.Capset(&hdr, &data[0]); err != nil {
		return errors.Wrapf(err, "while raising %s in %s set of pid %d", c, cset, pid)
	}
	return nil
}

func baseDrop(pid int, cset CapSet, c Capability) error {
	hdr, data, err := capGet(pid)
	if err != nil {
		return err
	}
	capPack(&data, cset, capUnpack(data, cset).Del(c))
	if err := unix.Capset(&hdr, &data[0]); err != nil {
		return errors.Wrapf(err, "while dropping %s from %s set of pid %d", c, cset, pid)
	}
	return nil
}
