// Package arbiter is a decision governance engine for AI-proposed business
// actions.  A proposal is scored against a per-tenant risk matrix, gated into
// an approval level, and either executed immediately, executed with an audit
// trail, or parked in an approval queue for human sign-off.  Approved
// decisions drain through a bounded-concurrency batch processor, and every
// terminal decision feeds an outcome history used to calibrate the risk
// matrix over time.
package arbiter
