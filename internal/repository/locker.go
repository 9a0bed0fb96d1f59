package repository

import (
	"fmt"
	"hash/fnv"

	"gorm.io/gorm"
)

// KeyLocker serializes a critical section across all processes sharing the
// database. The start operation locks per applicant email so two concurrent
// start calls cannot both pass the oldest-invite check, and manual scoring
// locks per submission so the finalization count reads a settled snapshot.
type KeyLocker interface {
	WithLock(key string, fn func() error) error
}

type advisoryLocker struct {
	db *gorm.DB
}

// NewAdvisoryLocker returns a KeyLocker backed by postgres advisory locks.
func NewAdvisoryLocker(db *gorm.DB) KeyLocker {
	return &advisoryLocker{db: db}
}

func (l *advisoryLocker) WithLock(key string, fn func() error) error {
	lockID := advisoryLockID(key)

	// Session-level advisory locks must be taken and released on the same
	// connection; Connection pins one for the duration.
	return l.db.Connection(func(conn *gorm.DB) error {
		if err := conn.Exec("SELECT pg_advisory_lock(?)", lockID).Error; err != nil {
			return fmt.Errorf("acquiring advisory lock for %q: %w", key, err)
		}
		defer conn.Exec("SELECT pg_advisory_unlock(?)", lockID)
		return fn()
	})
}

func advisoryLockID(key string) int64 {
	h := fnv.New64a()
	h.Write([]byte(key))
	return int64(h.Sum64())
}
