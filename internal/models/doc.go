// Package models defines the core domain models for Prediction Bingo.
//
// # Current Models
//
// The following models are persisted through the storage layer:
//   - User: A self-asserted username (no credentials)
//   - Group: A prediction round with a lifecycle status
//   - Member: A (group, username) roster entry with a role
//   - Prediction: A single free-text claim submitted by a member
//   - CompletedMark: A shared flag saying a prediction came true
//   - Comment: Review-phase discussion attached to a prediction
//
// Grid cells are derived at read time by the bingo package and are never
// persisted.
//
// # Design Principles
//
// 1. **Usernames are identity**: members and predictions reference usernames
// directly; there is no account system beyond the users table
// 2. **Forward-only lifecycle**: Group.Status advances through the transition
// table in status.go and never regresses
// 3. **Avoid circular references**: models reference each other by ID strings,
// never by pointer
package models
