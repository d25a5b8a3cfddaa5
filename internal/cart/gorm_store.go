package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Snapshot is the relational row backing one session's cart: the full line
// sequence serialized into a single payload column.
type Snapshot struct {
	SessionID string    `gorm:"column:session_id;primaryKey"`
	Lines     string    `gorm:"column:lines;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Snapshot) TableName() string {
	return "cart_snapshots"
}

// GormStore persists carts in the cart_snapshots table, one row per
// session. Selected when durability beyond Redis is wanted.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	if db == nil {
		return nil, fmt.Errorf("gorm handle required")
	}
	return &GormStore{db: db}, nil
}

func (s *GormStore) Load(ctx context.Context, sessionID string) ([]Line, error) {
	var row Snapshot
	err := s.db.WithContext(ctx).First(&row, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading cart snapshot: %w", err)
	}
	return decodeLines([]byte(row.Lines))
}

func (s *GormStore) Save(ctx context.Context, sessionID string, lines []Line) error {
	payload, err := encodeLines(lines)
	if err != nil {
		return err
	}
	row := Snapshot{SessionID: sessionID, Lines: string(payload)}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"lines", "updated_at"}),
		}).
		Create(&row).Error
	if err != nil {
		return fmt.Errorf("saving cart snapshot: %w", err)
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, sessionID string) error {
	err := s.db.WithContext(ctx).Delete(&Snapshot{}, "session_id = ?", sessionID).Error
	if err != nil {
		return fmt.Errorf("deleting cart snapshot: %w", err)
	}
	return nil
}
