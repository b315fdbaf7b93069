// Package models defines the core domain models for the tanda service.
//
// # Models
//
//   - Tanda: one rotating-savings group (a "tanda"/ROSCA instance)
//   - Member: one participant's state within a tanda
//   - Roster: the ordered collection of a tanda's members
//   - User: registered account used as the participant identity
//
// # Design Principles
//
//  1. **Integer money**: amounts are int64 minor units. Accounting paths
//     never touch floating point.
//  2. **Unix timestamps**: all times are int64 unix seconds, supplied by
//     the caller so state transitions stay deterministic and testable.
//  3. **Avoid circular references**: records reference each other by ID
//     strings, never by pointer.
//  4. **No behavior here**: state transitions live in internal/engine;
//     models only carry data and trivial accessors.
package models
