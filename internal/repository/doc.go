// Package repository implements the data access layer for the Crucible API.
//
// The repository package contains all database operations using SurrealDB.
// Each repository struct handles CRUD operations for a specific domain
// entity (queue entries, parties, instances, characters, content).
//
// # Repository Pattern
//
// All repositories follow a consistent pattern:
//
//   - Constructor function (NewXxxRepository) accepts a database connection
//   - Methods implement specific data operations (Create, GetByID, Update, Delete, etc.)
//   - SurrealQL queries are used for all database interactions
//   - Results are parsed and mapped to model structs
//
// # Queue Versioning
//
// The queue repository never updates queue entries in place. Every entry
// carries a version, and removals are conditional on that version, so a
// matchmaking pass that read a stale snapshot cannot claim an entry that
// another pass already consumed.
//
// # In-Memory Store
//
// MemoryQueueStore provides a mutex-guarded in-memory implementation of the
// same queue contract. It backs unit tests and single-process deployments
// that do not need durability.
package repository
