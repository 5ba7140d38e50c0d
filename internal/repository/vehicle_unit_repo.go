package repository

import (
	"context"

	"primemotors/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VehicleUnitRepository defines the data access contract for serialized
// vehicle units. Services depend on this interface, not on the concrete GORM
// implementation, enabling clean unit testing via stubs.
type VehicleUnitRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.VehicleUnit, error)
	FindByLotID(ctx context.Context, lotID uuid.UUID) ([]model.VehicleUnit, error)
	// ListSerialized returns every unit carrying an engine or chassis number,
	// with the owning lot preloaded so callers can resolve the branch.
	ListSerialized(ctx context.Context) ([]model.VehicleUnit, error)
	Search(ctx context.Context, engineNo, chassisNo string) ([]model.VehicleUnit, error)

	// Used inside transactions — callers must pass the tx instance
	CreateTx(tx *gorm.DB, u *model.VehicleUnit) error
	CreateBatchTx(tx *gorm.DB, units []model.VehicleUnit) error

	// MarkTransferredTx flips the transferred flag via compare-and-swap
	// (UPDATE … WHERE transferred = false) and returns the affected row
	// count. Zero rows means the unit was already transferred: the store's
	// row-level locking guarantees at most one concurrent caller wins.
	MarkTransferredTx(tx *gorm.DB, id uuid.UUID) (int64, error)

	// MarkSoldTx sets status=sold unless the unit is already sold or frozen
	// by a transfer. Returns the affected row count.
	MarkSoldTx(tx *gorm.DB, id uuid.UUID) (int64, error)

	// DeleteAvailableTx removes the given units of a lot, re-guarded by the
	// status filter so sold/reserved/transferred rows survive even if a
	// caller miscomputes the candidate set.
	DeleteAvailableTx(tx *gorm.DB, lotID uuid.UUID, ids []uuid.UUID) error

	// DeleteByLotTx removes ALL units of a lot regardless of status. Only the
	// forced lot-delete path may call this.
	DeleteByLotTx(tx *gorm.DB, lotID uuid.UUID) error
}

type vehicleUnitRepo struct{ db *gorm.DB }

func NewVehicleUnitRepository(db *gorm.DB) VehicleUnitRepository {
	return &vehicleUnitRepo{db: db}
}

func (r *vehicleUnitRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.VehicleUnit, error) {
	var u model.VehicleUnit
	err := r.db.WithContext(ctx).First(&u, id).Error
	return &u, err
}

func (r *vehicleUnitRepo) FindByLotID(ctx context.Context, lotID uuid.UUID) ([]model.VehicleUnit, error) {
	var units []model.VehicleUnit
	err := r.db.WithContext(ctx).
		Where("inventory_movement_id = ?", lotID).
		Order("unit_number ASC").
		Find(&units).Error
	return units, err
}

func (r *vehicleUnitRepo) ListSerialized(ctx context.Context) ([]model.VehicleUnit, error) {
	var units []model.VehicleUnit
	err := r.db.WithContext(ctx).
		Preload("Lot").
		Preload("Lot.Branch").
		Where("engine_no IS NOT NULL OR chassis_no IS NOT NULL").
		Order("created_at ASC").
		Find(&units).Error
	return units, err
}

func (r *vehicleUnitRepo) Search(ctx context.Context, engineNo, chassisNo string) ([]model.VehicleUnit, error) {
	q := r.db.WithContext(ctx).Preload("Lot").Preload("Lot.Branch").Preload("Lot.Item")
	if engineNo != "" {
		q = q.Where("engine_no = ?", engineNo)
	}
	if chassisNo != "" {
		q = q.Where("chassis_no = ?", chassisNo)
	}
	var units []model.VehicleUnit
	err := q.Find(&units).Error
	return units, err
}

func (r *vehicleUnitRepo) CreateTx(tx *gorm.DB, u *model.VehicleUnit) error {
	return tx.Create(u).Error
}

func (r *vehicleUnitRepo) CreateBatchTx(tx *gorm.DB, units []model.VehicleUnit) error {
	if len(units) == 0 {
		return nil
	}
	return tx.Create(&units).Error
}

func (r *vehicleUnitRepo) MarkTransferredTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Model(&model.VehicleUnit{}).
		Where("id = ? AND transferred = false", id).
		Update("transferred", true)
	return res.RowsAffected, res.Error
}

func (r *vehicleUnitRepo) MarkSoldTx(tx *gorm.DB, id uuid.UUID) (int64, error) {
	res := tx.Model(&model.VehicleUnit{}).
		Where("id = ? AND status <> ? AND transferred = false", id, model.UnitStatusSold).
		Update("status", model.UnitStatusSold)
	return res.RowsAffected, res.Error
}

func (r *vehicleUnitRepo) DeleteAvailableTx(tx *gorm.DB, lotID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return tx.
		Where("inventory_movement_id = ? AND id IN ?", lotID, ids).
		Where("(status = ? OR status = '' OR status IS NULL) AND transferred = false", model.UnitStatusAvailable).
		Delete(&model.VehicleUnit{}).Error
}

func (r *vehicleUnitRepo) DeleteByLotTx(tx *gorm.DB, lotID uuid.UUID) error {
	return tx.Where("inventory_movement_id = ?", lotID).Delete(&model.VehicleUnit{}).Error
}
