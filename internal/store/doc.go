// Package store provides SQLite-backed durable storage for the library catalog.
//
// The store owns three tables:
//   - books: titles with a total copy count and an on-shelf counter
//   - members: registered borrowers
//   - transactions: loans (open while returned = false)
//
// # Invariants
//
// Availability bounds
//   - CHECK (available >= 0 AND available <= quantity) on books
//   - Counter updates are guarded in the WHERE clause as well, so a lost
//     race never reaches the CHECK
//
// Atomic lending
//   - IssueLoan inserts the transaction and decrements available in one SQL transaction
//   - ReturnLoan closes exactly one open transaction and increments available
//     in one SQL transaction; no matching row means nothing is written
//
// Deterministic query results
//   - Every list query orders by its primary key
//
// # Database Configuration
//
//   - WAL mode
//   - synchronous=NORMAL
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//   - a single pooled connection
//
// Databases written by the earlier tool (transactions.return_date holding the
// due date) are migrated in place on Open.
package store
