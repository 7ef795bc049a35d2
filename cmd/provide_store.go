package cmd

import (
	"lendingpool/core"
	"lendingpool/store/asset"
	"lendingpool/store/borrow"
	"lendingpool/store/fixedterm"
	"lendingpool/store/share"
	"lendingpool/worker/checkpoint"

	"github.com/fox-one/pkg/property"
	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
	_ "github.com/lib/pq"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func providePropertyStore(db *db.DB) property.Store {
	return propertystore.New(db)
}

func provideAssetStore(db *db.DB) core.IAssetStore {
	return asset.New(db)
}

func provideBorrowStore(db *db.DB) core.IBorrowStore {
	return borrow.New(db)
}

func provideFixedTermStore(db *db.DB) core.IFixedTermStore {
	return fixedterm.New(db)
}

func provideShareStore(db *db.DB) core.IShareStore {
	return share.New(db)
}

func provideStores(db *db.DB) checkpoint.Stores {
	return checkpoint.Stores{
		DB:       db,
		Assets:   provideAssetStore(db),
		Borrows:  provideBorrowStore(db),
		Deposits: provideFixedTermStore(db),
		Shares:   provideShareStore(db),
		Property: providePropertyStore(db),
	}
}
