package session_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/expertpicks/clientcore/core/session"
)

// Overlapping mutators must never interleave their writes into a mixed
// identity: whatever wins, store and storage end up on the same record.
func TestManager_ConcurrentMutators(t *testing.T) {
	t.Parallel()

	store := session.NewStore()
	storage := newMemStorage()
	auth := &stubAuth{identity: session.Identity{ID: 1, Username: "one", Token: "tok-1"}}
	mgr := session.NewManager(store, storage, auth)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				_, _ = mgr.Login(t.Context(), session.Credentials{})
			} else {
				_ = mgr.Logout(t.Context())
			}
		}()
	}
	wg.Wait()

	snap := store.Get()
	stored := storage.stored()
	if snap.IsAuthenticated() {
		assert.NotNil(t, stored)
		assert.Equal(t, snap.Identity.Token, stored.Token)
		assert.Equal(t, snap.Identity.Username, stored.Username)
	} else {
		assert.Nil(t, snap.Identity)
		assert.Nil(t, stored)
	}
}
