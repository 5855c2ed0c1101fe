// Package session provides in-memory session management for the rail
// network simulation.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Core Types:
//
// Manager is the main session manager that handles all session operations.
// Each service.Session owns its own engine, seeded once at creation, along
// with its creation and last access times.
//
// Session Identifiers:
//
// Generated IDs are 4 hex characters drawn from crypto/rand. Lookups are
// case-insensitive, and a generated ID never collides with a live one.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config, 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//	sessions := manager.List()
//
// Cleanup:
//
// Sessions live until deleted or until CleanupExpiredSessions drops the ones
// idle longer than the given age. Nothing is written to disk.
package session
