// Copyright (c) 2018-2021, Sylabs Inc. All rights reserved.
// This software is licensed under a 3-clause BSD license. Please consult the
// LICENSE.md file distributed with the sources of this project regarding your
// rights to use or distribute this software.

package caps

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrUnsupported is returned for combinations of operation, set and
// pid that the kernel provides no mechanism for, e.g. raising a
// bounding capability or touching another thread's ambient set. It
// is detected before any syscall is issued; kernel-side refusals
// (permission denied and friends) surface as the wrapped errno
// instead.
var ErrUnsupported = errors.New("operation not supported")

// UnknownCapabilityError is returned when a capability name or index
// is outside the known enumeration.
type UnknownCapabilityError struct {
	Name string
}

func (e *UnknownCapabilityError) Error() string {
	return fmt.Sprintf("unknown capability: %q", e.Name)
}
