// Package risk owns the immutable default risk matrix, the risk scorer and
// the approval gate.  Scoring is a pure function over a proposal and an
// effective matrix entry; the gate is a deterministic step function from the
// 0–100 score to a human approval tier.  Per-tenant overrides are layered on
// top of the matrix at read time by the policy manager; the base table is
// never mutated.
package risk
