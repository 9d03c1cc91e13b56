package clock

import "time"

// NowFunc returns current time. Override in tests for determinism.
var NowFunc = time.Now

// Now is a thin wrapper around NowFunc.
func Now() time.Time { return NowFunc() }

// NowUTC returns the current time normalised to UTC. Persisted timestamps
// (decisions, outcomes, audit entries) always use UTC so that tenants in
// different timezones compare consistently.
func NowUTC() time.Time { return NowFunc().UTC() }
