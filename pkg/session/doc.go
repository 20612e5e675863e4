// Package session coordinates concurrent access to persisted wizard
// sessions. The Manager serializes operations per thread ID with
// refcounted in-process locks and, optionally, a distributed locker for
// multi-replica deployments.
package session
