// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package caps

import (
	"strconv"
	"strings"
)

// Capability is a single Linux capability, identified by its
// kernel-defined index. See capabilities(7).
type Capability int

// All capabilities known to this package, with the index values
// assigned by the kernel ABI. The indices are stable: once assigned
// by the kernel they never change.
const (
	CAP_CHOWN            Capability = 0
	CAP_DAC_OVERRIDE     Capability = 1
	CAP_DAC_READ_SEARCH  Capability = 2
	CAP_FOWNER           Capability = 3
	CAP_FSETID           Capability = 4
	CAP_KILL             Capability = 5
	CAP_SETGID           Capability = 6
	CAP_SETUID           Capability = 7
	CAP_SETPCAP          Capability = 8
	CAP_LINUX_IMMUTABLE  Capability = 9
	CAP_NET_BIND_SERVICE Capability = 10
	CAP_NET_BROADCAST    Capability = 11
	CAP_NET_ADMIN        Capability = 12
	CAP_NET_RAW          Capability = 13
	CAP_IPC_LOCK         Capability = 14
	CAP_IPC_OWNER        Capability = 15
	CAP_SYS_MODULE       Capability = 16
	CAP_SYS_RAWIO        Capability = 17
	CAP_SYS_CHROOT       Capability = 18
	CAP_SYS_PTRACE       Capability = 19
	CAP_SYS_PACCT        Capability = 20
	CAP_SYS_ADMIN        Capability = 21
	CAP_SYS_BOOT         Capability = 22
	CAP_SYS_NICE         Capability = 23
	CAP_SYS_RESOURCE     Capability = 24
	CAP_SYS_TIME         Capability = 25
	CAP_SYS_TTY_CONFIG   Capability = 26
	// CAP_MKNOD (since Linux 2.4)
	CAP_MKNOD Capability = 27
	// CAP_LEASE (since Linux 2.4)
	CAP_LEASE Capability = 28
	// CAP_AUDIT_WRITE (since Linux 2.6.11)
	CAP_AUDIT_WRITE Capability = 29
	// CAP_AUDIT_CONTROL (since Linux 2.6.11)
	CAP_AUDIT_CONTROL Capability = 30
	// CAP_SETFCAP (since Linux 2.6.24)
	CAP_SETFCAP Capability = 31
	// CAP_MAC_OVERRIDE (since Linux 2.6.25)
	CAP_MAC_OVERRIDE Capability = 32
	// CAP_MAC_ADMIN (since Linux 2.6.25)
	CAP_MAC_ADMIN Capability = 33
	// CAP_SYSLOG (since Linux 2.6.37)
	CAP_SYSLOG Capability = 34
	// CAP_WAKE_ALARM (since Linux 3.0)
	CAP_WAKE_ALARM Capability = 35
	// CAP_BLOCK_SUSPEND (since Linux 3.5)
	CAP_BLOCK_SUSPEND Capability = 36
	// CAP_AUDIT_READ (since Linux 3.16)
	CAP_AUDIT_READ Capability = 37
	// CAP_PERFMON (since Linux 5.8)
	CAP_PERFMON Capability = 38
	// CAP_BPF (since Linux 5.8)
	CAP_BPF Capability = 39
	// CAP_CHECKPOINT_RESTORE (since Linux 5.9)
	CAP_CHECKPOINT_RESTORE Capability = 40
)

// capNames maps each capability to its canonical kernel name, in
// index order. The slice position is the capability index.
var capNames = []string{
	CAP_CHOWN:              "CAP_CHOWN",
	CAP_DAC_OVERRIDE:       "CAP_DAC_OVERRIDE",
	CAP_DAC_READ_SEARCH:    "CAP_DAC_READ_SEARCH",
	CAP_FOWNER:             "CAP_FOWNER",
	CAP_FSETID:             "CAP_FSETID",
	CAP_KILL:               "CAP_KILL",
	CAP_SETGID:             "CAP_SETGID",
	CAP_SETUID:             "CAP_SETUID",
	CAP_SETPCAP:            "CAP_SETPCAP",
	CAP_LINUX_IMMUTABLE:    "CAP_LINUX_IMMUTABLE",
	CAP_NET_BIND_SERVICE:   "CAP_NET_BIND_SERVICE",
	CAP_NET_BROADCAST:      "CAP_NET_BROADCAST",
	CAP_NET_ADMIN:          "CAP_NET_ADMIN",
	CAP_NET_RAW:            "CAP_NET_RAW",
	CAP_IPC_LOCK:           "CAP_IPC_LOCK",
	CAP_IPC_OWNER:          "CAP_IPC_OWNER",
	CAP_SYS_MODULE:         "CAP_SYS_MODULE",
	CAP_SYS_RAWIO:          "CAP_SYS_RAWIO",
	CAP_SYS_CHROOT:         "CAP_SYS_CHROOT",
	CAP_SYS_PTRACE:         "CAP_SYS_PTRACE",
	CAP_SYS_PACCT:          "CAP_SYS_PACCT",
	CAP_SYS_ADMIN:          "CAP_SYS_ADMIN",
	CAP_SYS_BOOT:           "CAP_SYS_BOOT",
	CAP_SYS_NICE:           "CAP_SYS_NICE",
	CAP_SYS_RESOURCE:       "CAP_SYS_RESOURCE",
	CAP_SYS_TIME:           "CAP_SYS_TIME",
	CAP_SYS_TTY_CONFIG:     "CAP_SYS_TTY_CONFIG",
	CAP_MKNOD:              "CAP_MKNOD",
	CAP_LEASE:              "CAP_LEASE",
	CAP_AUDIT_WRITE:        "CAP_AUDIT_WRITE",
	CAP_AUDIT_CONTROL:      "CAP_AUDIT_CONTROL",
	CAP_SETFCAP:            "CAP_SETFCAP",
	CAP_MAC_OVERRIDE:       "CAP_MAC_OVERRIDE",
	CAP_MAC_ADMIN:          "CAP_MAC_ADMIN",
	CAP_SYSLOG:             "CAP_SYSLOG",
	CAP_WAKE_ALARM:         "CAP_WAKE_ALARM",
	CAP_BLOCK_SUSPEND:      "CAP_BLOCK_SUSPEND",
	CAP_AUDIT_READ:         "CAP_AUDIT_READ",
	CAP_PERFMON:            "CAP_PERFMON",
	CAP_BPF:                "CAP_BPF",
	CAP_CHECKPOINT_RESTORE: "CAP_CHECKPOINT_RESTORE",
}

// capByName is the reverse of capNames, for name parsing.
var capByName = make(map[string]Capability, len(capNames))

func init() {
	for i, name := range capNames {
		capByName[name] = Capability(i)
	}
}

// String returns the canonical kernel name of the capability,
// e.g. "CAP_SYS_ADMIN".
func (c Capability) String() string {
	if c < 0 || int(c) >= len(capNames) {
		return "UNKNOWN"
	}
	return capNames[c]
}

// Index returns the kernel-defined index of the capability.
func (c Capability) Index() int {
	return int(c)
}

// Mask returns the single-bit mask corresponding to the capability.
func (c Capability) Mask() Mask {
	return 1 << uint(c)
}

// FromName returns the capability with the given canonical name.
func FromName(name string) (Capability, error) {
	c, ok := capByName[name]
	if !ok {
		return 0, &UnknownCapabilityError{Name: name}
	}
	return c, nil
}

// FromIndex returns the capability with the given kernel index.
func FromIndex(index int) (Capability, error) {
	if index < 0 || index >= len(capNames) {
		return 0, &UnknownCapabilityError{Name: "index " + strconv.Itoa(index)}
	}
	return Capability(index), nil
}

// All returns the mask of every capability known to this package,
// independent of what the running kernel or any thread actually has.
func All() Mask {
	var m Mask
	for i := range capNames {
		m = m.Add(Capability(i))
	}
	return m
}

// Normalize takes a list of sloppy capability names (lowercase,
// surrounding spaces, missing CAP_ prefix) and resolves them against
// the known enumeration. The pseudo-name CAP_ALL expands to the full
// enumeration. It returns the recognized capabilities, duplicates
// removed, and the names that could not be resolved.
func Normalize(names []string) ([]Capability, []string) {
	const capAll = "CAP_ALL"

	var caps []Capability
	var unknown []string

	var m Mask
	for _, name := range names {
		name = strings.TrimSpace(name)
		name = strings.ToUpper(name)
		if !strings.HasPrefix(name, "CAP_") {
			name = "CAP_" + name
		}
		if name == capAll {
			return All().List(), nil
		}
		c, ok := capByName[name]
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		if m.Has(c) {
			continue
		}
		m = m.Add(c)
		caps = append(caps, c)
	}

	return caps, unknown
}

// Split takes a comma-separated list of capability names and resolves
// it with Normalize.
func Split(names string) ([]Capability, []string) {
	if names == "" {
		return nil, nil
	}
	return Normalize(strings.Split(names, ","))
}
