// Package model contains the in-memory representation of governed decisions,
// tenant risk policies, approval queue entries, decision outcomes and the
// domain records mutated by decision handlers.
//
// The types in this package are plain data holders; scoring, gating and
// execution live in the risk and service packages.  Keeping the model free of
// behaviour lets every DAO and service reference it with a single import.
package model
