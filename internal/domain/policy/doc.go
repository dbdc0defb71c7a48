// Package policy provides domain models for the policy billing bounded context.
//
// This package is responsible for:
//   - Representing insurance policies, their billing schedules and lifecycle
//   - Materializing invoice schedules that split an annual premium into installments
//   - Recording payments against a policy's ledger
//   - Tracking cancellation state for policies with past-due balances
//
// Key Aggregates:
//   - Policy: The policy itself, including billing schedule and cancellation state
//
// Entities:
//   - Invoice: A single installment bill, soft-deleted on schedule regeneration
//   - Payment: An append-only ledger entry for money received
//   - Contact: A party associated with a policy (agent or named insured)
//
// Invoices are never mutated in place: regenerating a schedule marks the
// superseded invoices deleted and inserts replacements, preserving the full
// billing history for audit.
package policy
