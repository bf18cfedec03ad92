/*
NAME
  tempfile.go

DESCRIPTION
  tempfile.go implements a scoped temporary-file acquisition: a handle
  whose Close unconditionally unlinks the backing file, so a deferred
  Close guarantees cleanup on every exit path (success, error, panic)
  without relying on a trailing cleanup block that a short-circuiting
  return could skip.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package convert

import (
	"os"

	"github.com/pkg/errors"
)

// scopedTemp is a temporary file guaranteed to be unlinked when Close is
// called, regardless of whether the file was ever written to.
type scopedTemp struct {
	Path string
}

// NewScopedTemp creates an empty temp file in dir matching pattern (see
// os.CreateTemp) and returns a handle to it. The file is closed
// immediately; callers reopen Path as needed. The caller must defer
// Close to guarantee the file is removed.
func NewScopedTemp(dir, pattern string) (*scopedTemp, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, errors.Wrap(err, "tempfile: could not create scoped temp file")
	}
	path := f.Name()
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, errors.Wrap(err, "tempfile: could not close scoped temp file")
	}
	return &scopedTemp{Path: path}, nil
}

// Close unlinks the temp file. Removal failure is swallowed per §7's
// "failure to delete is swallowed" behaviour; it is never surfaced as a
// conversion error.
func (t *scopedTemp) Close() error {
	os.Remove(t.Path)
	return nil
}
