// Package catalog implements the library catalog and its lending workflow.
//
// A Catalog owns one store handle for its whole lifetime: Open acquires it
// and Close releases it. Every mutating operation runs as a single store
// transaction, so a failed call leaves no partial change behind.
//
// Operations report failure through *Error. The boolean outcome callers
// show to users is simply err == nil; Kind decides which message to print.
//
// Lending rules:
//   - IssueBook needs an existing book with at least one copy on the shelf
//     and an existing member; due date = issue date + loan period (14 days
//     unless configured otherwise)
//   - A member may hold several copies of the same title at once
//   - ReturnBook closes the member's oldest open loan for the title and
//     fails, changing nothing, when there is none
package catalog
