// Package pipeline runs each configured plan against the shared AGP table:
// extraction, splicing, and assembly (agpsplice-core/plan), identifier
// derivation, the sequence lookup, and reconciliation. It writes every
// artifact into the plan's part directory.
//
// Plans never share mutable state; the only shared sink is the logger.
package pipeline
