package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/umedzhan/agromarket/internal/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// entry 键值存储行
type entry struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"index"`
}

// TableName 指定表名
func (entry) TableName() string {
	return "entries"
}

// SQLiteStore 基于本地 sqlite 文件的键值存储实现
type SQLiteStore struct {
	db *gorm.DB
}

// Open 打开（或创建）指定路径的存储文件
func Open(path string) (*SQLiteStore, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("store path is required")
	}
	if !strings.HasPrefix(path, "file:") {
		if dir := filepath.Dir(path); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create store dir failed: %w", err)
			}
		}
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open store failed: %w", err)
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate store failed: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Get 读取并反序列化指定键；键不存在或值损坏时返回 false
func (s *SQLiteStore) Get(key string, out interface{}) bool {
	var row entry
	err := s.db.Where("key = ?", key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false
	}
	if err != nil {
		logger.Warnw("store_get_failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal([]byte(row.Value), out); err != nil {
		// 损坏的持久化数据静默恢复为未命中
		logger.Debugw("store_value_corrupt", "key", key, "error", err)
		return false
	}
	return true
}

// Set 序列化并写入指定键，已存在时覆盖
func (s *SQLiteStore) Set(key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal value failed: %w", err)
	}
	var existing entry
	err = s.db.Where("key = ?", key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&entry{Key: key, Value: string(data), UpdatedAt: time.Now()}).Error
	}
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"value":      string(data),
		"updated_at": time.Now(),
	}
	return s.db.Model(&existing).Updates(updates).Error
}

// Remove 删除指定键，键不存在时为空操作
func (s *SQLiteStore) Remove(key string) error {
	return s.db.Where("key = ?", key).Delete(&entry{}).Error
}

// RawSet 直接写入原始字符串，仅测试用（构造损坏数据）
func (s *SQLiteStore) RawSet(key, raw string) error {
	var existing entry
	err := s.db.Where("key = ?", key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return s.db.Create(&entry{Key: key, Value: raw, UpdatedAt: time.Now()}).Error
	}
	if err != nil {
		return err
	}
	return s.db.Model(&existing).Updates(map[string]interface{}{"value": raw, "updated_at": time.Now()}).Error
}
