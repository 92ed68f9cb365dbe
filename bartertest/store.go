package bartertest

import (
	"testing"

	"github.com/iov-one/barter/store/iavl"
)

// CommitStore returns a store instance that is using a filesystem backend
// engine to store the data. The store is closed when the test ends.
// Use it instead of store.MemStore when you want the exact same storage
// implementation as the command line client is using.
func CommitStore(t testing.TB) *iavl.CommitStore {
	t.Helper()
	db, err := iavl.NewCommitStore(t.TempDir(), "db")
	if err != nil {
		t.Fatalf("cannot create a commit store: %s", err)
	}
	t.Cleanup(db.Close)
	return db
}
