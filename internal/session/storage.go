package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"iteminsight/internal/core"
)

// stateRecord is one persisted key of client state, the survives-a-
// restart analog of browser local storage.
type stateRecord struct {
	Key   string `gorm:"primaryKey"`
	Value string
}

func (stateRecord) TableName() string {
	return "client_state"
}

// Storage implements core.StateStorage on a local SQLite file.
type Storage struct {
	Config *core.Config

	db *gorm.DB
}

func (s *Storage) Init(_ context.Context) error {
	if err := os.MkdirAll(filepath.Dir(s.Config.StatePath), 0o755); err != nil {
		return err
	}

	db, err := gorm.Open(sqlite.Open(s.Config.StatePath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(&stateRecord{}); err != nil {
		return err
	}

	s.db = db
	return nil
}

func (s *Storage) Shutdown(_ context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil
	}
	return sqlDB.Close()
}

func (s *Storage) Get(ctx context.Context, key string) (string, error) {
	var rec stateRecord
	err := s.db.WithContext(ctx).First(&rec, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", core.ErrKeyNotFound
		}
		return "", err
	}
	return rec.Value, nil
}

func (s *Storage) Put(ctx context.Context, key, value string) error {
	return s.db.WithContext(ctx).Save(&stateRecord{Key: key, Value: value}).Error
}

// PutAll writes all pairs in one transaction, login state is stored
// atomically.
func (s *Storage) PutAll(ctx context.Context, values map[string]string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range values {
			if err := tx.Save(&stateRecord{Key: key, Value: value}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Delete(&stateRecord{}, "key IN ?", keys).Error
}
