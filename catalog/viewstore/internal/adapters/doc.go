// Package adapters provide database adapter implementations for the view store.
//
// Three connection types are supported: pgxpool.Pool, sql.DB, and sqlx.DB. All adapters
// provide equivalent functionality through the DBAdapter interface: statements are
// prepared once, reads are routed by the consistency level found in the context, and
// a batch of writes is applied atomically inside one transaction.
//
// A batch item can be marked MustApply. If such an item affects no row, the whole batch
// is rolled back and a *NotAppliedError naming the item is returned.
package adapters
