// Package sentinel holds the errors stores return for missing or colliding
// rows. Services map them onto domain error codes; handlers never see them.
package sentinel

import "errors"

var (
	// ErrNotFound means the ward, record or event does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict means a write collided with an existing row, such as a
	// second approval for the same ward.
	ErrConflict = errors.New("conflict")
)
