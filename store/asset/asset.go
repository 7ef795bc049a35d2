package asset

import (
	"context"

	"lendingpool/core"

	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type assetStore struct {
	db *db.DB
}

// New new asset store
func New(db *db.DB) core.IAssetStore {
	return &assetStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.AssetInfo{})
		if err := tx.AutoMigrate(core.AssetInfo{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func toUpdateParams(asset *core.AssetInfo) map[string]interface{} {
	return map[string]interface{}{
		"share_token":           asset.ShareToken,
		"enabled":               asset.Enabled,
		"cash":                  asset.Cash,
		"total_borrows":         asset.TotalBorrows,
		"total_reserves":        asset.TotalReserves,
		"withdrawn_reserves":    asset.WithdrawnReserves,
		"borrow_index":          asset.BorrowIndex,
		"accrual_time":          asset.AccrualTime,
		"reserve_factor":        asset.ReserveFactor,
		"max_deposit_amount":    asset.MaxDepositAmount,
		"collateral_weight":     asset.CollateralWeight,
		"debt_weight":           asset.DebtWeight,
		"max_collateral_amount": asset.MaxCollateralAmount,
		"init_exchange_rate":    asset.InitExchangeRate,
		"updated_at":            asset.UpdatedAt,
	}
}

func (s *assetStore) Save(ctx context.Context, tx *db.DB, asset *core.AssetInfo) error {
	var out core.AssetInfo
	return tx.Update().Where("token = ?", asset.Token).Assign(toUpdateParams(asset)).FirstOrCreate(&out).Error
}

func (s *assetStore) Find(ctx context.Context, token string) (*core.AssetInfo, error) {
	var asset core.AssetInfo
	if err := s.db.View().Where("token = ?", token).First(&asset).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, core.ErrAssetNotFound
		}

		return nil, err
	}

	return &asset, nil
}

func (s *assetStore) All(ctx context.Context) ([]*core.AssetInfo, error) {
	var assets []*core.AssetInfo
	if err := s.db.View().Order("id").Find(&assets).Error; err != nil {
		return nil, err
	}

	return assets, nil
}
