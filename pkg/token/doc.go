// Package token inspects bearer tokens on the client side without verifying
// them. Verification belongs to the backend; the only question answered here
// is whether a locally persisted token is still worth restoring a session
// from.
//
// JWTs are parsed unverified to read the exp claim. Opaque tokens, and JWTs
// without an exp claim, are treated as usable indefinitely.
//
//	if token.Usable(identity.Token) {
//		// restore the session
//	}
package token
