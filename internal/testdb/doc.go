// Package testdb provides utilities for database integration tests.
//
// Tests obtain a migrated connection with GetTestDBWithT, which skips the
// test when no database URL is configured, and run their work inside
// WithTx so that every change is rolled back when the test completes.
// Tests sharing one connection can therefore run in parallel without
// seeing each other's rows.
//
//	func TestTaskStore(t *testing.T) {
//		db := testdb.GetTestDBWithT(t)
//		testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//			taskStore := postgres.NewPostgresTaskStore(tx, nil)
//			// ...
//		})
//	}
//
// The connection string is read from DATABASE_URL, falling back to
// TASKBOARD_TEST_DB_URL.
package testdb
