package service

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"notes-api/cache"
	"notes-api/db"
	"notes-api/logger"
	"notes-api/models"

	"gorm.io/gorm"
)

// NoteService orchestrates note CRUD: ownership checks, transactional writes
// against the store, and read-through caching keyed per requester identity.
type NoteService struct{}

// ListNotes returns the notes visible to principal. Admins see everything, or
// a single user's notes when targetUserID is set; everyone else sees only
// their own, and asking for someone else's is forbidden.
func (s *NoteService) ListNotes(p models.Principal, targetUserID *int64) ([]models.Note, error) {
	partition, err := listPartition(p, targetUserID)
	if err != nil {
		return nil, err
	}

	key := cache.NotesKey(partition)
	var notes []models.Note
	if err := cache.GetJSON(key, &notes); err == nil {
		return notes, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.Warningf("read cache %s: %v", key, err)
	}

	q := db.DB
	switch {
	case targetUserID != nil:
		q = q.Where("user_id = ?", *targetUserID)
	case !p.IsAdmin():
		q = q.Where("user_id = ?", p.UserID)
	}
	if err := q.Find(&notes).Error; err != nil {
		return nil, err
	}

	// Empty results are not cached.
	if len(notes) > 0 {
		if err := cache.SetJSON(key, notes); err != nil {
			logger.Warningf("write cache %s: %v", key, err)
		}
	}
	return notes, nil
}

// GetNote returns a single note. The ownership check runs on cache hits too,
// so a cached entry is never served to a principal the store would refuse.
func (s *NoteService) GetNote(p models.Principal, id int64) (*models.Note, error) {
	note := &models.Note{}
	err := cache.GetJSON(cache.NoteKey(id), note)
	if err == nil {
		if err := authorize(p, note); err != nil {
			return nil, err
		}
		return note, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		logger.Warningf("read cache %s: %v", cache.NoteKey(id), err)
	}

	note, err = findNote(db.DB, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, note); err != nil {
		return nil, err
	}
	cacheNote(note)
	return note, nil
}

// CreateNote persists a new note owned by principal. The owner is always the
// principal, regardless of anything the request body carried.
func (s *NoteService) CreateNote(p models.Principal, title, content string) (*models.Note, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	note := &models.Note{Title: title, Content: content, UserID: p.UserID}
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, p.UserID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: user %d", ErrNotFound, p.UserID)
			}
			return err
		}
		return tx.Create(note).Error
	})
	if err != nil {
		return nil, err
	}

	cacheNote(note)
	evictNoteLists(p, note)
	return note, nil
}

// UpdateNote replaces title and content. Owner and id never change.
func (s *NoteService) UpdateNote(p models.Principal, id int64, title, content string) (*models.Note, error) {
	if err := validateTitle(title); err != nil {
		return nil, err
	}

	var note *models.Note
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		note, err = findNote(tx, id)
		if err != nil {
			return err
		}
		if err := authorize(p, note); err != nil {
			return err
		}
		note.Title = title
		note.Content = content
		return tx.Save(note).Error
	})
	if err != nil {
		return nil, err
	}

	cacheNote(note)
	evictNoteLists(p, note)
	return note, nil
}

// PartialUpdateNote applies only the fields present in the input map (title
// and/or content); absent fields are untouched.
func (s *NoteService) PartialUpdateNote(p models.Principal, id int64, fields map[string]any) (*models.Note, error) {
	updates := map[string]any{}
	if raw, ok := fields["title"]; ok {
		title, ok := raw.(string)
		if !ok {
			return nil, &ValidationError{Message: "Title must be a string"}
		}
		if err := validateTitle(title); err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if raw, ok := fields["content"]; ok {
		content, ok := raw.(string)
		if !ok {
			return nil, &ValidationError{Message: "Content must be a string"}
		}
		updates["content"] = content
	}

	var note *models.Note
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		note, err = findNote(tx, id)
		if err != nil {
			return err
		}
		if err := authorize(p, note); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(note).Updates(updates).Error; err != nil {
			return err
		}
		// Re-read so timestamps reflect what was stored.
		note, err = findNote(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	cacheNote(note)
	evictNoteLists(p, note)
	return note, nil
}

// DeleteNote removes the note permanently.
func (s *NoteService) DeleteNote(p models.Principal, id int64) error {
	var note *models.Note
	err := db.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		note, err = findNote(tx, id)
		if err != nil {
			return err
		}
		if err := authorize(p, note); err != nil {
			return err
		}
		return tx.Delete(note).Error
	})
	if err != nil {
		return err
	}

	evictNote(id)
	evictNoteLists(p, note)
	return nil
}

func findNote(tx *gorm.DB, id int64) (*models.Note, error) {
	note := &models.Note{}
	if err := tx.First(note, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: note %d", ErrNotFound, id)
		}
		return nil, err
	}
	return note, nil
}

func validateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return &ValidationError{Message: "Title is required"}
	}
	if utf8.RuneCountInString(title) > 255 {
		return &ValidationError{Message: "Title must not exceed 255 characters"}
	}
	return nil
}
