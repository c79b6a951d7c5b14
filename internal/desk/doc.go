// Package desk implements the circulation workflows shared by the terminal
// console and the command line.
//
// Every action validates its input locally first and returns a
// *ValidationError without contacting the service when something is missing
// or malformed. Remote failures come back unchanged as
// *library.OperationError values; multi-item actions return a
// batch.Outcome. Desk holds no view state, so callers decide what to refetch
// (see package refresh).
package desk
