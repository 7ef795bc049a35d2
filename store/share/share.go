package share

import (
	"context"

	"lendingpool/core"

	"github.com/fox-one/pkg/store/db"
)

type shareStore struct {
	db *db.DB
}

// New new share balance store
func New(db *db.DB) core.IShareStore {
	return &shareStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.ShareBalance{})
		if err := tx.AutoMigrate(core.ShareBalance{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *shareStore) Save(ctx context.Context, tx *db.DB, balance *core.ShareBalance) error {
	var out core.ShareBalance
	return tx.Update().
		Where("share_token = ? AND holder = ?", balance.ShareToken, balance.Holder).
		Assign(map[string]interface{}{
			"amount":     balance.Amount,
			"updated_at": balance.UpdatedAt,
		}).
		FirstOrCreate(&out).Error
}

func (s *shareStore) All(ctx context.Context) ([]*core.ShareBalance, error) {
	var balances []*core.ShareBalance
	if err := s.db.View().Find(&balances).Error; err != nil {
		return nil, err
	}

	return balances, nil
}
