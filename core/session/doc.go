// Package session implements the client-side session core: the reactive
// Store holding the authenticated identity, the Manager that is its only
// writer, and the Storage interface backing it with durable client storage.
//
// The state machine has three phases. A new Store starts in
// StatusBootstrapping, which consumers must treat as "unknown" rather than
// "logged out". Manager.Bootstrap hydrates the store from Storage exactly
// once at process start and always terminates the bootstrapping phase, even
// when storage is corrupt. From then on the mutators (Login, Logout,
// SetAuthentication, UpdateUser) are the only legal transitions, each
// updating durable storage and memory together under a single writer lock.
//
// Consumers react to transitions through Store.Subscribe:
//
//	store := session.NewStore()
//	unsub := store.Subscribe(func(snap session.Snapshot) {
//		if !snap.IsAuthenticated() {
//			// tear down anything bound to the old identity
//		}
//	})
//	defer unsub()
package session
