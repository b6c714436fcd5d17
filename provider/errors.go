package provider

import "errors"

var (
	// ErrNotFound covers entities that are absent or soft-deleted.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the permission resolver denied the capability.
	ErrForbidden = errors.New("forbidden")
	// ErrFilesNotFound aborts group creation when any requested file id does
	// not resolve to a usable file; the operation is all-or-nothing.
	ErrFilesNotFound = errors.New("one or more files not found")
	// ErrStorageUnavailable means the blob layer did not confirm the write.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrNoAccessibleFiles means a batch yielded an empty authorized set.
	ErrNoAccessibleFiles = errors.New("no accessible files")
)
