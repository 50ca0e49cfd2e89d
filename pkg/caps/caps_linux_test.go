// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package caps

import (
	"os"
	"runtime"
	"testing"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"

	"github.com/sylabs/caps/internal/pkg/test"
)

func TestUnsupportedCombinations(t *testing.T) {
	// A pid other than 0 refers to another thread even when it
	// happens to be our own process id.
	pid := os.Getpid()

	testOps := []struct {
		name string
		call func() error
	}{
		{"has ambient other thread", func() error { _, err := Has(pid, Ambient, CAP_CHOWN); return err }},
		{"read ambient other thread", func() error { _, err := Read(pid, Ambient); return err }},
		{"set ambient other thread", func() error { return Set(pid, Ambient, NewMask(CAP_CHOWN)) }},
		{"clear ambient other thread", func() error { return Clear(pid, Ambient) }},
		{"raise ambient other thread", func() error { return Raise(pid, Ambient, CAP_CHOWN) }},
		{"drop ambient other thread", func() error { return Drop(pid, Ambient, CAP_CHOWN) }},
		{"has bounding other thread", func() error { _, err := Has(pid, Bounding, CAP_CHOWN); return err }},
		{"read bounding other thread", func() error { _, err := Read(pid, Bounding); return err }},
		{"set bounding other thread", func() error { return Set(pid, Bounding, NewMask(CAP_CHOWN)) }},
		{"clear bounding other thread", func() error { return Clear(pid, Bounding) }},
		{"raise bounding other thread", func() error { return Raise(pid, Bounding, CAP_CHOWN) }},
		{"drop bounding other thread", func() error { return Drop(pid, Bounding, CAP_CHOWN) }},
		{"set bounding", func() error { return Set(0, Bounding, NewMask(CAP_CHOWN)) }},
		{"raise bounding", func() error { return Raise(0, Bounding, CAP_CHOWN) }},
	}
	for _, tc := range testOps {
		err := tc.call()
		if err == nil {
			t.Errorf("%s unexpectedly succeeded", tc.name)
			continue
		}
		if errors.Cause(err) != ErrUnsupported {
			t.Errorf("%s returned %v, expected ErrUnsupported", tc.name, err)
		}
	}
}

func TestReadCurrentThread(t *testing.T) {
	for _, cset := range []CapSet{Ambient, Bounding, Effective, Inheritable, Permitted} {
		m, err := Read(0, cset)
		if err != nil {
			t.Errorf("reading %s set failed: %v", cset, err)
			continue
		}
		// Has must agree with the snapshot for every known capability.
		for _, c := range All().List() {
			if cset == Bounding || cset == Ambient {
				// Probing the tail of the enumeration can hit
				// EINVAL on older kernels; Read skips those.
				if last, err := LastCap(); err == nil && c > last {
					continue
				}
			}
			has, err := Has(0, cset, c)
			if err != nil {
				t.Errorf("checking %s in %s set failed: %v", c, cset, err)
				continue
			}
			if has != m.Has(c) {
				t.Errorf("Has(0, %s, %s) returned %v, snapshot says %v", cset, c, has, m.Has(c))
			}
		}
	}
}

func TestReadOwnPid(t *testing.T) {
	// POSIX sets are readable through an explicit thread id.
	m0, err := Read(0, Permitted)
	if err != nil {
		t.Fatalf("reading permitted set failed: %v", err)
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	mPid, err := Read(unix.Gettid(), Permitted)
	if err != nil {
		t.Fatalf("reading permitted set of own tid failed: %v", err)
	}
	if m0 != mPid {
		t.Errorf("permitted set differs between pid 0 (%s) and own tid (%s)", m0, mPid)
	}
}

func TestReadInvalidPid(t *testing.T) {
	_, err := Read(-12345, Permitted)
	if err == nil {
		t.Fatal("reading capabilities of invalid pid unexpectedly succeeded")
	}
	if _, ok := errors.Cause(err).(unix.Errno); !ok {
		t.Errorf("error cause is %T, expected a unix.Errno", errors.Cause(err))
	}
}

func TestLastCap(t *testing.T) {
	last, err := LastCap()
	if err != nil {
		t.Fatalf("LastCap failed: %v", err)
	}
	// Every kernel this library can run on defines at least the
	// original POSIX-era capabilities.
	if last < CAP_SETPCAP {
		t.Errorf("LastCap returned %d, expected at least %d", last, CAP_SETPCAP)
	}
}

func TestSupported(t *testing.T) {
	m, err := Supported()
	if err != nil {
		t.Fatalf("Supported failed: %v", err)
	}
	if !m.Has(CAP_CHOWN) {
		t.Error("Supported mask does not contain CAP_CHOWN")
	}
	if m.Len() > All().Len() {
		t.Errorf("Supported mask has %d capabilities, more than the enumeration", m.Len())
	}
}

func TestAmbientClearIdempotent(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for i := 0; i < 2; i++ {
		if err := Clear(0, Ambient); err != nil {
			t.Fatalf("clearing ambient set (round %d) failed: %v", i+1, err)
		}
		m, err := Read(0, Ambient)
		if err != nil {
			t.Fatalf("reading ambient set failed: %v", err)
		}
		if m != 0 {
			t.Fatalf("ambient set not empty after clear: %s", m)
		}
	}
}

func TestEffectiveLifecycle(t *testing.T) {
	test.EnsurePrivilege(t)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	permitted, err := Read(0, Permitted)
	if err != nil {
		t.Fatalf("reading permitted set failed: %v", err)
	}
	if permitted == 0 {
		t.Skip("empty permitted set")
	}
	c := permitted.List()[0]

	origEffective, err := Read(0, Effective)
	if err != nil {
		t.Fatalf("reading effective set failed: %v", err)
	}
	defer func() {
		if err := Set(0, Effective, origEffective); err != nil {
			t.Fatalf("restoring effective set failed: %v", err)
		}
	}()

	if err := Drop(0, Effective, c); err != nil {
		t.Fatalf("dropping %s from effective set failed: %v", c, err)
	}
	if has, err := Has(0, Effective, c); err != nil || has {
		t.Fatalf("%s still in effective set after drop (err %v)", c, err)
	}

	if err := Raise(0, Effective, c); err != nil {
		t.Fatalf("raising %s in effective set failed: %v", c, err)
	}
	if has, err := Has(0, Effective, c); err != nil || !has {
		t.Fatalf("%s not in effective set after raise (err %v)", c, err)
	}

	if err := Clear(0, Effective); err != nil {
		t.Fatalf("clearing effective set failed: %v", err)
	}
	m, err := Read(0, Effective)
	if err != nil {
		t.Fatalf("reading effective set failed: %v", err)
	}
	if m != 0 {
		t.Fatalf("effective set not empty after clear: %s", m)
	}
}

func TestAmbientLifecycle(t *testing.T) {
	test.EnsurePrivilege(t)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	permitted, err := Read(0, Permitted)
	if err != nil {
		t.Fatalf("reading permitted set failed: %v", err)
	}
	if permitted == 0 {
		t.Skip("empty permitted set")
	}
	c := permitted.List()[0]

	origInheritable, err := Read(0, Inheritable)
	if err != nil {
		t.Fatalf("reading inheritable set failed: %v", err)
	}

	// Ambient raise demands the capability in both Permitted and
	// Inheritable, so stage it in Inheritable first.
	if err := Raise(0, Inheritable, c); err != nil {
		t.Fatalf("raising %s in inheritable set failed: %v", c, err)
	}
	defer func() {
		if err := Clear(0, Ambient); err != nil {
			t.Fatalf("clearing ambient set failed: %v", err)
		}
		if err := Set(0, Inheritable, origInheritable); err != nil {
			t.Fatalf("restoring inheritable set failed: %v", err)
		}
	}()

	if err := Raise(0, Ambient, c); err != nil {
		t.Fatalf("raising %s in ambient set failed: %v", c, err)
	}
	if has, err := Has(0, Ambient, c); err != nil || !has {
		t.Fatalf("%s not in ambient set after raise (err %v)", c, err)
	}

	if err := Drop(0, Ambient, c); err != nil {
		t.Fatalf("dropping %s from ambient set failed: %v", c, err)
	}
	if has, err := Has(0, Ambient, c); err != nil || has {
		t.Fatalf("%s still in ambient set after drop (err %v)", c, err)
	}

	if err := Set(0, Ambient, NewMask(c)); err != nil {
		t.Fatalf("assigning ambient set failed: %v", err)
	}
	m, err := Read(0, Ambient)
	if err != nil {
		t.Fatalf("reading ambient set failed: %v", err)
	}
	if m != NewMask(c) {
		t.Fatalf("ambient set is %s after assignment, expected %s", m, NewMask(c))
	}
}

// TestBoundingLifecycle permanently drops one capability from the
// test process's bounding set, so it must stay the last kernel-facing
// test in this file.
func TestBoundingLifecycle(t *testing.T) {
	test.EnsurePrivilege(t)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	bound, err := Read(0, Bounding)
	if err != nil {
		t.Fatalf("reading bounding set failed: %v", err)
	}
	if bound == 0 {
		t.Skip("empty bounding set")
	}
	list := bound.List()
	c := list[len(list)-1]

	if err := Drop(0, Bounding, c); err != nil {
		t.Fatalf("dropping %s from bounding set failed: %v", c, err)
	}
	if has, err := Has(0, Bounding, c); err != nil || has {
		t.Fatalf("%s still in bounding set after drop (err %v)", c, err)
	}

	// Once dropped, there is no way back.
	if err := Raise(0, Bounding, c); errors.Cause(err) != ErrUnsupported {
		t.Fatalf("raising dropped bounding capability returned %v, expected ErrUnsupported", err)
	}
	if err := Set(0, Bounding, bound); errors.Cause(err) != ErrUnsupported {
		t.Fatalf("assigning bounding set returned %v, expected ErrUnsupported", err)
	}
}
