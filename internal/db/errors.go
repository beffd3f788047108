package db

import "github.com/sevengen/site-backend/pkg/database"

var (
	// ErrNotFound is returned (wrapped) when a document is not found.
	ErrNotFound = database.ErrNotFound
	// ErrAlreadyExists is returned (wrapped) when creating a document whose ID is taken.
	ErrAlreadyExists = database.ErrAlreadyExists
)
