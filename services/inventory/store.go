package inventory

import (
	"context"
	"errors"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"modkeys-storefront/pkg/errutil"
)

// ErrVersionConflict is returned by SaveAll when the inventory changed since
// the snapshot was loaded. The caller re-runs its read-modify-write cycle.
var ErrVersionConflict = errors.New("inventory version conflict")

// Snapshot is a point-in-time copy of the whole inventory plus the optimistic
// version stamp guarding it.
type Snapshot struct {
	Version int64
	Keys    []Key
}

// Store holds the full key collection with replace-all semantics. LoadAll
// returns keys oldest-first (created_at ASC, id ASC), and SaveAll replaces
// the collection atomically, failing with ErrVersionConflict if the version
// stamp moved since the corresponding LoadAll.
type Store interface {
	LoadAll(ctx context.Context) (*Snapshot, error)
	SaveAll(ctx context.Context, keys []Key, version int64) error
}

type inventoryVersion struct {
	ID      int64 `gorm:"column:id;primaryKey"`
	Version int64 `gorm:"column:version;not null;default:0"`
}

func (inventoryVersion) TableName() string { return "inventory_versions" }

// Models lists everything the store persists, for automigration and the test
// harness.
func Models() []any {
	return []any{&Key{}, &inventoryVersion{}}
}

type GormStore struct {
	db *gorm.DB
}

type StoreParams struct {
	fx.In
	DB *gorm.DB
}

func NewGormStore(p StoreParams) Store {
	return &GormStore{db: p.DB}
}

func (s *GormStore) LoadAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ver := inventoryVersion{ID: 1}
		if err := tx.FirstOrCreate(&ver, inventoryVersion{ID: 1}).Error; err != nil {
			return err
		}
		snap.Version = ver.Version

		return tx.Order("created_at ASC, id ASC").Find(&snap.Keys).Error
	})
	if err != nil {
		return nil, errutil.Unavailable("key inventory unavailable", errutil.WithErr(err))
	}

	return snap, nil
}

func (s *GormStore) SaveAll(ctx context.Context, keys []Key, version int64) error {
	conflict := false

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Guarded bump: zero rows affected means another writer committed
		// first and the whole replace must be abandoned.
		res := tx.Model(&inventoryVersion{}).
			Where("id = ? AND version = ?", 1, version).
			Update("version", gorm.Expr("version + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			conflict = true
			return ErrVersionConflict
		}

		if err := tx.Where("1 = 1").Delete(&Key{}).Error; err != nil {
			return err
		}
		if len(keys) == 0 {
			return nil
		}
		return tx.Create(&keys).Error
	})

	if conflict {
		return ErrVersionConflict
	}
	if err != nil {
		return errutil.Unavailable("key inventory unavailable", errutil.WithErr(err))
	}

	return nil
}
