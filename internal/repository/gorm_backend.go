package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// collectionRecord 每个资源一行，payload 为整个集合的 JSON 数组
type collectionRecord struct {
	Name      string `gorm:"primaryKey;size:128"`
	Payload   string
	UpdatedAt time.Time
}

func (collectionRecord) TableName() string {
	return "collections"
}

// GormBackend 适用于 mysql、postgres、sqlite
type GormBackend struct {
	DB *gorm.DB
}

func NewGormBackend(db *gorm.DB) (*GormBackend, error) {
	if err := db.AutoMigrate(&collectionRecord{}); err != nil {
		return nil, err
	}
	return &GormBackend{DB: db}, nil
}

func (b *GormBackend) Read(ctx context.Context, key string) ([]byte, error) {
	var records []collectionRecord
	err := b.DB.WithContext(ctx).
		Where("name = ?", key).
		Limit(1).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return []byte(records[0].Payload), nil
}

func (b *GormBackend) Write(ctx context.Context, key string, payload []byte) error {
	record := collectionRecord{
		Name:      key,
		Payload:   string(payload),
		UpdatedAt: time.Now(),
	}
	return b.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"payload", "updated_at"}),
	}).Create(&record).Error
}

func (b *GormBackend) Ping(ctx context.Context) error {
	sqlDB, err := b.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (b *GormBackend) Close() error {
	sqlDB, err := b.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
