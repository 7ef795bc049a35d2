package fixedterm

import (
	"context"

	"lendingpool/core"

	"github.com/fox-one/pkg/store/db"
)

type fixedTermStore struct {
	db *db.DB
}

// New new fixed-term deposit store
func New(db *db.DB) core.IFixedTermStore {
	return &fixedTermStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.FixedTermDeposit{})
		if err := tx.AutoMigrate(core.FixedTermDeposit{}).Error; err != nil {
			return err
		}

		return nil
	})
}

// Save deposits are immutable once created
func (s *fixedTermStore) Save(ctx context.Context, tx *db.DB, deposit *core.FixedTermDeposit) error {
	return tx.Update().Where("key = ?", deposit.Key).FirstOrCreate(deposit).Error
}

func (s *fixedTermStore) Delete(ctx context.Context, tx *db.DB, key string) error {
	return tx.Update().Where("key = ?", key).Delete(core.FixedTermDeposit{}).Error
}

func (s *fixedTermStore) All(ctx context.Context) ([]*core.FixedTermDeposit, error) {
	var deposits []*core.FixedTermDeposit
	if err := s.db.View().Find(&deposits).Error; err != nil {
		return nil, err
	}

	return deposits, nil
}
