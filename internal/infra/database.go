package infra

import (
	"fmt"

	"primemotors/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies any idempotent SQL patches that GORM
// cannot express (partial indexes, DO-block guarded DDL).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations applies the schema. Also used by integration tests against
// throwaway containers.
func RunMigrations(db *gorm.DB) error {
	// gen_random_uuid() needs pgcrypto on Postgres < 13
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto`).Error; err != nil {
		return fmt.Errorf("pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Branch{},
		&model.Item{},
		&model.Supplier{},
		&model.InventoryMovement{},
		&model.VehicleUnit{},
		&model.TransferredHistory{},
		&model.PurchaseOrder{},
		&model.PurchaseOrderItem{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded so re-running on a patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index backing the cross-branch reconciliation scan: only
		// serialized units are ever correlated.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_vehicle_units_serialized') THEN
		    CREATE INDEX idx_vehicle_units_serialized
		        ON vehicle_units (engine_no, chassis_no)
		        WHERE engine_no IS NOT NULL OR chassis_no IS NOT NULL;
		  END IF;
		END $$`,
		// The transfer CAS relies on scanning non-transferred rows fast.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_vehicle_units_active') THEN
		    CREATE INDEX idx_vehicle_units_active
		        ON vehicle_units (inventory_movement_id)
		        WHERE transferred = false;
		  END IF;
		END $$`,
		// Pending-line surfacing joins on outstanding quantity.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_po_items_outstanding') THEN
		    CREATE INDEX idx_po_items_outstanding
		        ON purchase_order_items (purchase_order_id)
		        WHERE qty > delivered_qty;
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
