// Package service implements the business logic layer for the Crucible API.
//
// The service package contains all matchmaking domain logic, validation
// rules, and orchestration of repository operations. Services are the
// primary abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Matchmaking Pipeline
//
// The Matchmaker is intentionally split in two: a pure planning phase that
// turns a queue snapshot into a set of candidate groups, and an execution
// phase that claims entries through conditional removal and dispatches
// provisioning. Only the execution phase performs I/O, so the matching
// rules can be tested without a store.
//
// # Error Handling
//
// Services return domain-specific errors defined as package-level variables:
//
//	var (
//	    ErrPartyNotFound  = errors.New("party not found")
//	    ErrNotPartyLeader = errors.New("not the party leader")
//	)
package service
