package repository

import "errors"

// ErrDuplicateKey is the storage-neutral form of a unique-constraint
// violation, so services can map it without importing gorm.
var ErrDuplicateKey = errors.New("duplicate key")
