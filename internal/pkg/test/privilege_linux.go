// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

// Package test provides privilege juggling helpers for tests that
// must run with, or explicitly without, elevated privileges.
package test

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"runtime"
	"testing"

	"golang.org/x/sys/unix"
)

var (
	origUID, origGID, unprivUID, unprivGID int
)

// EnsurePrivilege skips the test unless it runs with privilege.
func EnsurePrivilege(t *testing.T) {
	if os.Getuid() != 0 {
		t.Skip("test requires privilege")
	}
}

// DropPrivilege drops privilege. Use this at the start of a test that
// does not require elevated privileges. A matching call to
// ResetPrivilege must occur before the test completes (a defer
// statement is recommended.)
func DropPrivilege(t *testing.T) {
	// setresuid/setresgid modify the current thread only, so the
	// goroutine must stay locked to its OS thread for the new
	// identity to stick.
	runtime.LockOSThread()

	if os.Getgid() == 0 {
		if err := unix.Setresgid(unprivGID, unprivGID, origGID); err != nil {
			t.Fatalf("failed to set group identity: %v", err)
		}
	}
	if os.Getuid() == 0 {
		if err := unix.Setresuid(unprivUID, unprivUID, origUID); err != nil {
			t.Fatalf("failed to set user identity: %v", err)
		}
	}
}

// ResetPrivilege returns effective privilege to the original user.
func ResetPrivilege(t *testing.T) {
	if err := unix.Setresuid(origUID, origUID, unprivUID); err != nil {
		t.Fatalf("failed to reset user identity: %v", err)
	}
	if err := unix.Setresgid(origGID, origGID, unprivGID); err != nil {
		t.Fatalf("failed to reset group identity: %v", err)
	}

	runtime.UnlockOSThread()
}

// WithPrivilege wraps the supplied test function with calls to ensure
// the test is run with elevated privileges.
func WithPrivilege(f func(t *testing.T)) func(t *testing.T) {
	return func(t *testing.T) {
		t.Helper()
		EnsurePrivilege(t)
		f(t)
	}
}

// WithoutPrivilege wraps the supplied test function with calls to
// ensure the test is run without elevated privileges.
func WithoutPrivilege(f func(t *testing.T)) func(t *testing.T) {
	return func(t *testing.T) {
		t.Helper()
		DropPrivilege(t)
		defer ResetPrivilege(t)
		f(t)
	}
}

// getProcInfo returns the parent PID, UID, and GID associated with
// the supplied PID.
func getProcInfo(pid int) (ppid int, uid int, gid int) {
	f, err := os.Open(fmt.Sprintf("/proc/%v/status", pid))
	if err != nil {
		log.Fatalf("failed to open /proc/%v/status", pid)
	}
	defer f.Close()

	for s := bufio.NewScanner(f); s.Scan(); {
		var temp int
		if n, _ := fmt.Sscanf(s.Text(), "PPid:\t%d", &temp); n == 1 {
			ppid = temp
		}
		if n, _ := fmt.Sscanf(s.Text(), "Uid:\t%d", &temp); n == 1 {
			uid = temp
		}
		if n, _ := fmt.Sscanf(s.Text(), "Gid:\t%d", &temp); n == 1 {
			gid = temp
		}
	}
	return ppid, uid, gid
}

// getUnprivIDs searches up the process parent chain for a process
// with a non-root UID and returns that UID and GID. Falls back to
// nobody when the whole chain is root.
func getUnprivIDs(pid int) (uid int, gid int) {
	if pid == 1 {
		return 65534, 65534
	}
	ppid, uid, gid := getProcInfo(pid)
	if uid != 0 {
		return uid, gid
	}
	return getUnprivIDs(ppid)
}

func init() {
	origUID = os.Getuid()
	origGID = os.Getgid()
	unprivUID, unprivGID = getUnprivIDs(os.Getpid())
}
