// Copyright 2022 Gustavo C. Viegas. All rights reserved.

package xfer

import "github.com/pkg/errors"

const prefix = "xfer: "

// ErrMapFailure means that the staging buffer could not be
// (re)allocated or mapped. The transfer cycle aborts with no
// commands recorded.
var ErrMapFailure = errors.New(prefix + "staging buffer map failed")

// ErrSubmitFailure means that queue submission returned a
// non-success result. wait_semaphores have already been
// cleared by the time this is returned.
var ErrSubmitFailure = errors.New(prefix + "queue submission failed")
