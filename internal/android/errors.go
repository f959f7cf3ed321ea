// Copyright (C) 2026 ludachrisnyc
// License: AGPL-3.0-only

package android

import (
	"errors"
	"fmt"

	cerrdefs "github.com/containerd/errdefs"
)

// Sentinel errors for the failure classes surfaced by the bootstrap flow.
// Callers match them with errors.Is; missing prerequisites (no SDK root,
// absent tool or archive) additionally satisfy IsNotFound.
var (
	ErrDownload = errors.New("command-line tools download failed")
	ErrExtract  = errors.New("command-line tools extract failed")
	ErrInstall  = errors.New("sdk package install failed")
	ErrCreate   = errors.New("virtual device create failed")
	ErrLaunch   = errors.New("emulator launch failed")
)

// IsNotFound reports whether err describes a missing prerequisite.
func IsNotFound(err error) bool {
	return cerrdefs.IsNotFound(err)
}

func notFoundf(format string, args ...any) error {
	args = append(args, cerrdefs.ErrNotFound)
	return fmt.Errorf(format+": %w", args...)
}
