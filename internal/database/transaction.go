package database

// Atomic batch support for multi-statement writes.
//
// AtomicBatch accumulates statements and executes them as a single
// BEGIN/COMMIT TRANSACTION block. Variables are namespaced per statement
// ($id -> $v1_id) so queries from different call sites can be combined
// without collisions.
//
// IMPORTANT: the batch is BATCH-BASED. Queries accumulate and execute
// together at Execute time. There is no isolation between Add() calls.

import (
	"context"
	"fmt"
	"strings"
)

// AtomicBatch collects statements that must succeed or fail together.
type AtomicBatch struct {
	statements []string
	vars       map[string]interface{}
	varCounter uint64
}

// NewAtomicBatch creates a new atomic batch
func NewAtomicBatch() *AtomicBatch {
	return &AtomicBatch{
		statements: make([]string, 0),
		vars:       make(map[string]interface{}),
	}
}

// Add adds a statement to the batch, namespacing its variables to avoid
// collisions with other statements
func (ab *AtomicBatch) Add(query string, vars map[string]interface{}) *AtomicBatch {
	newQuery := query
	for varName, varValue := range vars {
		ab.varCounter++
		newVarName := fmt.Sprintf("v%d_%s", ab.varCounter, varName)
		newQuery = strings.ReplaceAll(newQuery, "$"+varName, "$"+newVarName)
		ab.vars[newVarName] = varValue
	}
	ab.statements = append(ab.statements, newQuery)
	return ab
}

// Len returns the number of statements in the batch
func (ab *AtomicBatch) Len() int {
	return len(ab.statements)
}

// Build returns the complete transaction query and merged variables
func (ab *AtomicBatch) Build() (string, map[string]interface{}) {
	if len(ab.statements) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString("BEGIN TRANSACTION;\n")
	for _, stmt := range ab.statements {
		sb.WriteString(stmt)
		if !strings.HasSuffix(strings.TrimSpace(stmt), ";") {
			sb.WriteString(";")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("COMMIT TRANSACTION;")

	return sb.String(), ab.vars
}

// Execute runs all statements as a single transaction
func (ab *AtomicBatch) Execute(ctx context.Context, db Database) error {
	query, vars := ab.Build()
	if query == "" {
		return nil
	}

	_, err := db.Query(ctx, query, vars)
	return err
}
