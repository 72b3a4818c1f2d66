// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	// ErrInvalidSession marks a session file that exists but cannot be
	// trusted: unparseable JSON or a missing expiry. Deleting it blindly
	// could throw away a live login, so the run stops instead.
	ErrInvalidSession = errors.New("session file is malformed")

	// ErrInvalidConfig marks a prune configuration that parsed as JSON but
	// violates the expected schema.
	ErrInvalidConfig = errors.New("prune configuration is invalid")

	// ErrCollectorFailed marks a collector invocation that exited non-zero
	// or never started.
	ErrCollectorFailed = errors.New("collection failed")

	// ErrAlreadyRunning marks an aborted start because a previous
	// maintenance run still holds the run file.
	ErrAlreadyRunning = errors.New("maintenance run already in progress")
)
