// Package journal records gallery items that still have to be deleted on
// the backend, so a crash between a stored upload and the gallery closing
// does not leave results behind.
//
// Typical Usage
//
//	repo := journal.NewSQLiteRepository(db)
//	_ = repo.Track(ctx, item)
//	pending, _ := repo.Pending(ctx)
//	_ = repo.Forget(ctx, item.Filename)
//
// Store.TrackAll writes a batch in one transaction.
package journal
