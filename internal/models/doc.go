// Package models defines the core domain models for bankdesk.
//
// Five entities are persisted:
//   - Admin: administrator credentials for console login
//   - Account: a customer account; Balance is the source of truth for funds
//   - Transaction: append-only record of one deposit or withdrawal
//   - Loan: a loan request with a small status lifecycle
//   - AuditEntry: append-only record of every mutating operation
//
// Transactions and loans reference accounts by account number rather than by
// an enforced relation, so deleting an account strands its history on purpose
// (the history remains inspectable after the account is gone).
package models
