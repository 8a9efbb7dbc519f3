package config

import "errors"

var (
	// ErrFileNotFound is returned when the input path does not exist.
	ErrFileNotFound = errors.New("file does not exist")

	// ErrNotRegularFile is returned for directories and other non-regular files.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrFileUnreadable is returned when the input file cannot be opened.
	ErrFileUnreadable = errors.New("file is not readable")

	// ErrInvalidConfig covers bad option values and unreadable config files.
	ErrInvalidConfig = errors.New("invalid configuration")
)
