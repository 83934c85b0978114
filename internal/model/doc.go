// Package model provides the record types shared by the catalog, the store
// and the command surfaces.
//
// This package contains type definitions only. All other internal packages
// import model; model imports nothing internal.
//
// Key design constraints:
//   - Optional text columns (isbn, email) are *string so NULL survives a round trip
//   - Loan dates are calendar dates; only the YYYY-MM-DD part is persisted
//   - All JSON and db tags use snake_case
package model
