package database

import "errors"

// ErrDuplicateStudent is returned when creating a roster entry whose
// enrollment code is already taken.
var ErrDuplicateStudent = errors.New("student with this enrollment already exists")

// ErrNotFound is returned by update operations targeting a missing row.
var ErrNotFound = errors.New("record not found")
