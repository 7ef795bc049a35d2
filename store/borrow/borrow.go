package borrow

import (
	"context"

	"lendingpool/core"

	"github.com/fox-one/pkg/store/db"
)

type borrowStore struct {
	db *db.DB
}

// New new borrow store
func New(db *db.DB) core.IBorrowStore {
	return &borrowStore{
		db: db,
	}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.BorrowRecord{})
		if err := tx.AutoMigrate(core.BorrowRecord{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *borrowStore) Save(ctx context.Context, tx *db.DB, borrow *core.BorrowRecord) error {
	var out core.BorrowRecord
	return tx.Update().Where("pool = ? AND token = ?", borrow.Pool, borrow.Token).Assign(map[string]interface{}{
		"principal":      borrow.Principal,
		"interest_index": borrow.InterestIndex,
		"updated_at":     borrow.UpdatedAt,
	}).FirstOrCreate(&out).Error
}

func (s *borrowStore) All(ctx context.Context) ([]*core.BorrowRecord, error) {
	var borrows []*core.BorrowRecord
	if e := s.db.View().Order("id").Find(&borrows).Error; e != nil {
		return nil, e
	}

	return borrows, nil
}
