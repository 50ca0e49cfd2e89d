// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package caps

import (
	"io/ioutil"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const lastCapPath = "/proc/sys/kernel/cap_last_cap"

// LastCap returns the highest capability index the running kernel
// defines, which may be above or below the highest capability this
// package knows about.
func LastCap() (Capability, error) {
	b, err := ioutil.ReadFile(lastCapPath)
	if err != nil {
		return 0, errors.Wrap(err, "while reading last capability index")
	}
	last, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, errors.Wrapf(err, "while parsing %s", lastCapPath)
	}
	return Capability(last), nil
}

// Supported returns the mask of capabilities both defined by the
// running kernel and known to this package.
func Supported() (Mask, error) {
	last, err := LastCap()
	if err != nil {
		return 0, err
	}
	var m Mask
	for _, c := range All().List() {
		if c <= last {
			m = m.Add(c)
		}
	}
	return m, nil
}
