// Package postgres provides the PostgreSQL implementation of store.AccountStore,
// the alternate Credential Store backend selected with database.driver=postgres.
// It handles connection pooling (pgxpool), schema migrations (goose, embedded
// SQL files) and the mapping between domain accounts and table rows.
package postgres
