package service

import (
	"context"
	"time"

	"primemotors/internal/dto"
	"primemotors/internal/model"
	"primemotors/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// InventoryService owns lot and unit maintenance: guarded CRUD over the
// InventoryMovement and VehicleUnit stores. The transfer state machine lives
// in TransferService; sales and purchasing only reach in through
// MarkUnitSold and the receiving flow.
type InventoryService interface {
	CreateLot(ctx context.Context, req dto.CreateLotRequest) (*dto.LotResponse, error)
	ListInventory(ctx context.Context) (*dto.ListInventoryResponse, error)
	UpdateLot(ctx context.Context, id uuid.UUID, req dto.UpdateLotRequest) (*dto.LotResponse, error)
	DeleteLot(ctx context.Context, id uuid.UUID) error
	MarkUnitSold(ctx context.Context, unitID uuid.UUID) (*dto.MarkSoldResponse, error)
}

type inventoryService struct {
	movRepo    repository.InventoryMovementRepository
	unitRepo   repository.VehicleUnitRepository
	branchRepo repository.BranchRepository
	itemRepo   repository.ItemRepository
	poRepo     repository.PurchaseOrderRepository
}

func NewInventoryService(
	movRepo repository.InventoryMovementRepository,
	unitRepo repository.VehicleUnitRepository,
	branchRepo repository.BranchRepository,
	itemRepo repository.ItemRepository,
	poRepo repository.PurchaseOrderRepository,
) InventoryService {
	return &inventoryService{
		movRepo:    movRepo,
		unitRepo:   unitRepo,
		branchRepo: branchRepo,
		itemRepo:   itemRepo,
		poRepo:     poRepo,
	}
}

// ── CreateLot ────────────────────────────────────────────────────────────────

func (s *inventoryService) CreateLot(ctx context.Context, req dto.CreateLotRequest) (*dto.LotResponse, error) {
	branchID, err := uuid.Parse(req.BranchID)
	if err != nil {
		return nil, validationf("invalid branch_id")
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, validationf("invalid item_id")
	}
	if _, err := s.branchRepo.FindByID(ctx, branchID); err != nil {
		return nil, notFoundOr(err)
	}
	if _, err := s.itemRepo.FindByID(ctx, itemID); err != nil {
		return nil, notFoundOr(err)
	}

	var supplierID *uuid.UUID
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, validationf("invalid supplier_id")
		}
		supplierID = &sid
	}

	receivedDate := time.Now()
	if req.ReceivedDate != nil {
		receivedDate = *req.ReceivedDate
	}

	lot := model.InventoryMovement{
		BranchID:     branchID,
		ItemID:       itemID,
		SupplierID:   supplierID,
		ReceivedDate: receivedDate,
		DRNo:         req.DRNo,
		SINo:         req.SINo,
		UnitCost:     req.UnitCost,
		SRP:          req.SRP,
		Color:        req.Color,
		Remarks:      req.Remarks,
		BeginningQty: req.BeginningQty,
		PurchasedQty: req.PurchasedQty,
		EndingQty:    req.BeginningQty + req.PurchasedQty,
	}

	txErr := runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		if err := s.movRepo.CreateTx(tx, &lot); err != nil {
			return err
		}
		units := make([]model.VehicleUnit, 0, len(req.Units))
		for i, u := range req.Units {
			status := u.Status
			if status == "" {
				status = model.UnitStatusAvailable
			}
			units = append(units, model.VehicleUnit{
				InventoryMovementID: lot.ID,
				EngineNo:            u.EngineNo,
				ChassisNo:           u.ChassisNo,
				UnitNumber:          i + 1,
				Status:              status,
			})
		}
		return s.unitRepo.CreateBatchTx(tx, units)
	})
	if txErr != nil {
		return nil, txErr
	}

	created, err := s.movRepo.FindByID(ctx, lot.ID)
	if err != nil {
		return nil, err
	}
	resp := toLotResponse(created)
	return &resp, nil
}

// ── ListInventory ────────────────────────────────────────────────────────────

// ListInventory returns every lot with its live units (transferred units are
// filtered out, surfacing only as the derived has_transferred flag) plus the
// undelivered purchase-order lines reshaped as pending rows.
func (s *inventoryService) ListInventory(ctx context.Context) (*dto.ListInventoryResponse, error) {
	lots, err := s.movRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListInventoryResponse{
		Current: make([]dto.LotResponse, 0, len(lots)),
		Pending: []dto.PendingLineResponse{},
	}
	for i := range lots {
		resp.Current = append(resp.Current, toLotResponse(&lots[i]))
	}

	pending, err := s.poRepo.ListPendingLines(ctx)
	if err != nil {
		return nil, err
	}
	for _, line := range pending {
		p := dto.PendingLineResponse{
			ItemID:   line.ItemID.String(),
			Color:    line.Color,
			Qty:      line.Qty - line.DeliveredQty,
			UnitCost: line.UnitPrice,
			Status:   "pending",
		}
		if line.Order != nil {
			p.PONo = line.Order.PONo
			p.BranchID = line.Order.BranchID.String()
		}
		if line.Item != nil {
			p.ItemName = line.Item.Name
		}
		resp.Pending = append(resp.Pending, p)
	}
	return resp, nil
}

// ── UpdateLot ────────────────────────────────────────────────────────────────

// UpdateLot applies the partial scalar changes and reconciles the unit list:
// existing units omitted from the incoming list are deleted only while still
// available and untransferred; incoming entries with an unknown engine+chassis
// pair become new units. The whole reconciliation runs in one transaction so
// a failed create never leaves the delete phase half-applied.
func (s *inventoryService) UpdateLot(ctx context.Context, id uuid.UUID, req dto.UpdateLotRequest) (*dto.LotResponse, error) {
	lot, err := s.movRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}

	fields, err := lotUpdateFields(req)
	if err != nil {
		return nil, err
	}

	incoming := req.IncomingUnits()
	incomingIDs := make(map[uuid.UUID]bool, len(incoming))
	for _, u := range incoming {
		if u.ID == nil {
			continue
		}
		if uid, err := uuid.Parse(*u.ID); err == nil {
			incomingIDs[uid] = true
		}
	}

	// Deletion candidates: existing units absent from the incoming list,
	// and only those still deletable. Sold, reserved, and transferred units
	// are never touched regardless of what the client sends.
	var deleteIDs []uuid.UUID
	existingSerials := make(map[string]bool, len(lot.Units))
	maxUnitNumber := 0
	for _, ex := range lot.Units {
		existingSerials[natKey(ex.EngineNo, ex.ChassisNo)] = true
		if ex.UnitNumber > maxUnitNumber {
			maxUnitNumber = ex.UnitNumber
		}
		if !incomingIDs[ex.ID] && ex.Deletable() {
			deleteIDs = append(deleteIDs, ex.ID)
		}
	}

	// New units: incoming entries whose serial pair matches no existing unit.
	// Matches are left untouched so a sold unit's serials are never rewritten.
	var newUnits []model.VehicleUnit
	next := maxUnitNumber
	for _, in := range incoming {
		if existingSerials[natKey(in.EngineNo, in.ChassisNo)] {
			continue
		}
		status := in.Status
		if status == "" {
			status = model.UnitStatusAvailable
		}
		next++
		newUnits = append(newUnits, model.VehicleUnit{
			InventoryMovementID: lot.ID,
			EngineNo:            in.EngineNo,
			ChassisNo:           in.ChassisNo,
			UnitNumber:          next,
			Status:              status,
		})
		existingSerials[natKey(in.EngineNo, in.ChassisNo)] = true
	}

	txErr := runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		if err := s.movRepo.UpdateFieldsTx(tx, lot.ID, fields); err != nil {
			return err
		}
		// Repo re-guards by status at delete time (defense in depth).
		if err := s.unitRepo.DeleteAvailableTx(tx, lot.ID, deleteIDs); err != nil {
			return err
		}
		return s.unitRepo.CreateBatchTx(tx, newUnits)
	})
	if txErr != nil {
		return nil, txErr
	}

	updated, err := s.movRepo.FindByID(ctx, lot.ID)
	if err != nil {
		return nil, err
	}
	resp := toLotResponse(updated)
	return &resp, nil
}

// lotUpdateFields builds the partial update map: nil pointers are dropped,
// never written as null. Engine/chassis never appear at the lot level.
func lotUpdateFields(req dto.UpdateLotRequest) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if req.SupplierID != nil {
		sid, err := uuid.Parse(*req.SupplierID)
		if err != nil {
			return nil, validationf("invalid supplier_id")
		}
		fields["supplier_id"] = sid
	}
	if req.ReceivedDate != nil {
		fields["received_date"] = *req.ReceivedDate
	}
	if req.DRNo != nil {
		fields["dr_no"] = *req.DRNo
	}
	if req.SINo != nil {
		fields["si_no"] = *req.SINo
	}
	if req.UnitCost != nil {
		fields["unit_cost"] = *req.UnitCost
	}
	if req.SRP != nil {
		fields["srp"] = *req.SRP
	}
	if req.Color != nil {
		if *req.Color == "" {
			return nil, validationf("color is required")
		}
		fields["color"] = *req.Color
	}
	if req.Remarks != nil {
		fields["remarks"] = *req.Remarks
	}
	if req.BeginningQty != nil {
		fields["beginning_qty"] = *req.BeginningQty
	}
	if req.PurchasedQty != nil {
		fields["purchased_qty"] = *req.PurchasedQty
	}
	return fields, nil
}

// ── DeleteLot ────────────────────────────────────────────────────────────────

// DeleteLot is the forced escape hatch for bad entries: it removes the lot
// and ALL its units regardless of status, bypassing every guard Update
// enforces. Destructive and irreversible.
func (s *inventoryService) DeleteLot(ctx context.Context, id uuid.UUID) error {
	if _, err := s.movRepo.FindByID(ctx, id); err != nil {
		return notFoundOr(err)
	}
	return runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		if err := s.unitRepo.DeleteByLotTx(tx, id); err != nil {
			return err
		}
		return s.movRepo.DeleteTx(tx, id)
	})
}

// ── MarkUnitSold ─────────────────────────────────────────────────────────────

// MarkUnitSold is the entry point the sales module calls when a unit is sold.
// A transferred unit is frozen and refuses the update; the status change and
// the lot counters move together in one transaction.
func (s *inventoryService) MarkUnitSold(ctx context.Context, unitID uuid.UUID) (*dto.MarkSoldResponse, error) {
	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if unit.Transferred {
		return nil, ErrAlreadyTransferred
	}

	txErr := runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		rows, err := s.unitRepo.MarkSoldTx(tx, unitID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAlreadySold
		}
		return s.movRepo.IncrementSoldTx(tx, unit.InventoryMovementID)
	})
	if txErr != nil {
		return nil, txErr
	}

	unit.Status = model.UnitStatusSold
	return &dto.MarkSoldResponse{Success: true, Unit: toUnitResponse(unit)}, nil
}

// ── Mapping helpers ──────────────────────────────────────────────────────────

func toUnitResponse(u *model.VehicleUnit) dto.UnitResponse {
	return dto.UnitResponse{
		ID:          u.ID.String(),
		EngineNo:    u.EngineNo,
		ChassisNo:   u.ChassisNo,
		UnitNumber:  u.UnitNumber,
		Status:      u.Status,
		Transferred: u.Transferred,
	}
}

// toLotResponse maps a lot for presentation: transferred units are filtered
// from the unit list and surface only through has_transferred.
func toLotResponse(m *model.InventoryMovement) dto.LotResponse {
	resp := dto.LotResponse{
		ID:             m.ID.String(),
		BranchID:       m.BranchID.String(),
		ItemID:         m.ItemID.String(),
		ReceivedDate:   m.ReceivedDate,
		DRNo:           m.DRNo,
		SINo:           m.SINo,
		UnitCost:       m.UnitCost,
		SRP:            m.SRP,
		Color:          m.Color,
		Remarks:        m.Remarks,
		BeginningQty:   m.BeginningQty,
		PurchasedQty:   m.PurchasedQty,
		TransferredQty: m.TransferredQty,
		SoldQty:        m.SoldQty,
		EndingQty:      m.EndingQty,
		VehicleUnits:   []dto.UnitResponse{},
	}
	if m.SupplierID != nil {
		sid := m.SupplierID.String()
		resp.SupplierID = &sid
	}
	if m.Branch != nil {
		resp.BranchName = m.Branch.Name
	}
	if m.Item != nil {
		resp.ItemName = m.Item.Name
	}
	if m.Supplier != nil {
		name := m.Supplier.Name
		resp.SupplierName = &name
	}
	for i := range m.Units {
		u := &m.Units[i]
		if u.Transferred {
			resp.HasTransferred = true
			continue
		}
		resp.VehicleUnits = append(resp.VehicleUnits, toUnitResponse(u))
	}
	return resp
}
