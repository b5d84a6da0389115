// Package apperr defines the §7 error taxonomy shared across this
// module's packages: six sentinel values, wrapped at the call site with
// fmt.Errorf's %w and checked with errors.Is, the same pattern the
// teacher's repository layer uses for its own sentinel errors
// (e.g. sql.ErrNoRows checks in internal/db).
package apperr

import "errors"

var (
	// ErrMapLoad is an EMF read/seek/decode failure (§7 "MapLoad").
	// Surfaced by marking the map non-existent; the world continues.
	ErrMapLoad = errors.New("apperr: map load failed")

	// ErrOutOfBounds is a request referencing coordinates, ids, or
	// indices outside the live ranges (§7 "OutOfBounds"). Surfaced by
	// ignoring the request; no broadcast.
	ErrOutOfBounds = errors.New("apperr: out of bounds")

	// ErrPolicyDenied is an action that violates a gameplay rule —
	// access level, PK rule, weight cap, attack rate, movement rate, an
	// admin-protected target (§7 "PolicyDenied"). Surfaced by a
	// localized "denied" status line to the initiator; world state is
	// unchanged.
	ErrPolicyDenied = errors.New("apperr: policy denied")

	// ErrTargetMissing is a referenced character/NPC that vanished
	// between receipt and dispatch (§7 "TargetMissing"). Surfaced by
	// dropping the request silently; reverse pointers are already clear.
	ErrTargetMissing = errors.New("apperr: target missing")

	// ErrDatabaseTransient is a failed commit (§7 "DatabaseTransient").
	// Surfaced by rolling back the current transaction window, keeping
	// in-memory state, logging, and reopening the transaction.
	ErrDatabaseTransient = errors.New("apperr: database transient failure")

	// ErrInvariantViolation is a detected invariant break, e.g. a
	// ground-item uid collision (§7 "InvariantViolation"). Surfaced by
	// treating the generating operation as a no-op and logging at warn
	// level; the process is not torn down.
	ErrInvariantViolation = errors.New("apperr: invariant violation")
)
