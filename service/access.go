package service

import (
	"fmt"

	"notes-api/cache"
	"notes-api/logger"
	"notes-api/models"
)

// authorize decides whether principal may act on note: administrators may,
// owners may, nobody else. Evaluated after the note is located and before
// any mutation is applied.
func authorize(p models.Principal, note *models.Note) error {
	if p.IsAdmin() || p.UserID == note.UserID {
		return nil
	}
	return fmt.Errorf("%w: no access to note %d", ErrForbidden, note.ID)
}

// listPartition computes the cache partition for a list query. Partitions are
// keyed by requester identity rather than raw parameters:
//
//	admin, no filter      -> admin:all
//	any requester, filter -> user:<target>   (non-admins only for themselves)
//	non-admin, no filter  -> user:<own id>
func listPartition(p models.Principal, targetUserID *int64) (string, error) {
	if targetUserID != nil {
		if !p.IsAdmin() && *targetUserID != p.UserID {
			return "", fmt.Errorf("%w: cannot list notes of user %d", ErrForbidden, *targetUserID)
		}
		return cache.UserPartition(*targetUserID), nil
	}
	if p.IsAdmin() {
		return cache.PartitionAdminAll, nil
	}
	return cache.UserPartition(p.UserID), nil
}

// evictNoteLists drops every list partition a write to note could be visible
// in: the owner's, the actor's (an admin editing someone else's note), and
// the admin-wide view. Failures are logged, never propagated; the store is
// the source of truth and stale entries expire with the TTL.
func evictNoteLists(p models.Principal, note *models.Note) {
	keys := []string{
		cache.NotesKey(cache.UserPartition(note.UserID)),
		cache.NotesKey(cache.PartitionAdminAll),
	}
	if p.UserID != note.UserID {
		keys = append(keys, cache.NotesKey(cache.UserPartition(p.UserID)))
	}
	if err := cache.Delete(keys...); err != nil {
		logger.Warningf("evict note list caches: %v", err)
	}
}

// cacheNote replaces the single-note entry after a create/update.
func cacheNote(note *models.Note) {
	if err := cache.SetJSON(cache.NoteKey(note.ID), note); err != nil {
		logger.Warningf("cache note %d: %v", note.ID, err)
	}
}

func evictNote(id int64) {
	if err := cache.Delete(cache.NoteKey(id)); err != nil {
		logger.Warningf("evict note %d: %v", id, err)
	}
}
