package ports

import (
	"agroprod/domain/core"
)

// SessionRepository holds the loaded dataset of each browser session
type SessionRepository[T any] interface {
	// Touch records activity, creating the session if needed
	Touch(id core.SessionID)

	// Get returns the loaded value; ok is false while awaiting upload
	Get(id core.SessionID) (value T, ok bool)

	// Replace swaps the session value wholesale
	Replace(id core.SessionID, value T)

	// Clear returns the session to awaiting upload
	Clear(id core.SessionID)
}
