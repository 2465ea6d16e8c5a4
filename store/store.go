// Package store provides durable implementations of the session.Store
// port: a bun/SQLite store for real runs and an in-memory store for
// tests and ephemeral sessions. Both honor the port's degradation
// contract: corrupted or partial data reads as absent, never as an
// error the caller has to guard.
package store

// Storage keys. The credential token and cached user form an atomic
// pair; the remembered document number is independent of it.
const (
	keyCredentialToken    = "credentialToken"
	keyCachedUser         = "cachedUser"
	keyRememberedDocument = "rememberedDocumentNumber"
)
