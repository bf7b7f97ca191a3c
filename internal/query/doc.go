// Package query builds SELECT statements for sqlcmd.
//
// # Query Builder
//
// Builder is an immutable, fluent SELECT builder. Every method returns a new
// Builder, so a partially configured builder can be shared and extended
// without one branch leaking clauses into another:
//
//	base := query.NewQueryBuilder("orders")
//	q, args, err := base.
//	    Lt("amount", 100).
//	    NotNull("amount").
//	    Build()
//	// SELECT * FROM "orders" WHERE "amount" < 100 AND "amount" IS NOT NULL
//
// Identifiers passed to From, Eq, the comparison methods and NotNull are
// validated and double-quoted. Numeric comparison bounds are inlined as
// literals; values passed to Eq and Where are bound parameters rendered with
// the configured Placeholder style ("?" for DuckDB, "$n" for PostgreSQL).
//
// The builder focuses on SQL generation only and does not execute queries.
package query
