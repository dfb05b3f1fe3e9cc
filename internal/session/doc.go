// Package session implements the core of the keeper: the in-memory session
// registry, the reconnect scheduler, and the lifecycle manager that drives
// each account's connection through logon, interactive verification,
// steady-state activity, and teardown.
//
// Lifecycle of one account:
//
//	Idle → Connecting → AwaitingVerification (optional) → Active
//	     → Disconnecting/Disconnected → Idle, or back to Connecting
//	       via the scheduler's unattended retry.
//
// All mutable state is owned by a single Manager instance and guarded by
// one mutex; connect flows suspend cooperatively on channel operations and
// never hold the lock across them.
package session
