package session

import "context"

// Storage is the durable client storage behind the in-memory store: a cache
// of the last committed identity that survives process restarts. It is read
// once during bootstrap and written by every mutator that changes the
// identity. Implementations must be safe for concurrent use.
type Storage interface {
	// Load returns the persisted identity, or ErrNoSession when nothing
	// is stored. Corrupt data is an error; the caller degrades it to a
	// logged-out state.
	Load(ctx context.Context) (Identity, error)
	// Save persists the identity, replacing any previous record.
	Save(ctx context.Context, identity Identity) error
	// Delete removes the persisted identity. Deleting an absent record
	// is not an error.
	Delete(ctx context.Context) error
}

// AuthService is the authentication endpoint collaborator used by Login.
type AuthService interface {
	Login(ctx context.Context, creds Credentials) (Identity, error)
}
