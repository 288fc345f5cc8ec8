package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds the staleness window of every cached entry. Overridden
// from config at startup.
var DefaultTTL = 10 * time.Minute

// Key prefixes. Note lists are partitioned by requester identity: the same
// nominal request returns different results for different identities, so the
// partition is part of the key.
const (
	KeyNotePrefix  = "note:"
	KeyNotesPrefix = "notes:"
	KeyUsersAll    = "users:all"

	PartitionAdminAll = "admin:all"
)

// ErrMiss reports that the key was absent. Callers fall through to the store.
var ErrMiss = errors.New("cache: miss")

func NoteKey(id int64) string {
	return fmt.Sprintf("%s%d", KeyNotePrefix, id)
}

func NotesKey(partition string) string {
	return KeyNotesPrefix + partition
}

func UserPartition(userID int64) string {
	return fmt.Sprintf("user:%d", userID)
}

// GetJSON retrieves a value and unmarshals it into dest. Returns ErrMiss when
// the key is absent.
func GetJSON(key string, dest any) error {
	val, err := get(key)
	if errors.Is(err, redis.Nil) {
		return ErrMiss
	}
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(val), dest)
}

// SetJSON marshals value and stores it under key with the default TTL.
func SetJSON(key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return set(key, string(data), DefaultTTL)
}
