package service

import (
	"context"
	"fmt"
	"time"

	"primemotors/internal/dto"
	"primemotors/internal/model"
	"primemotors/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReceivingService turns purchase-order deliveries into inventory lots. One
// lot is created per received PO line; the delivered counters and the PO
// status move in the same transaction so a crash cannot leave stock without
// paperwork or paperwork without stock.
type ReceivingService interface {
	ReceivePurchaseOrder(ctx context.Context, poID string, req dto.ReceivePORequest) (*dto.ReceivePOResponse, error)
}

type receivingService struct {
	poRepo   repository.PurchaseOrderRepository
	movRepo  repository.InventoryMovementRepository
	unitRepo repository.VehicleUnitRepository
}

func NewReceivingService(
	poRepo repository.PurchaseOrderRepository,
	movRepo repository.InventoryMovementRepository,
	unitRepo repository.VehicleUnitRepository,
) ReceivingService {
	return &receivingService{poRepo: poRepo, movRepo: movRepo, unitRepo: unitRepo}
}

func (s *receivingService) ReceivePurchaseOrder(ctx context.Context, poID string, req dto.ReceivePORequest) (*dto.ReceivePOResponse, error) {
	id, err := uuid.Parse(poID)
	if err != nil {
		return nil, validationf("invalid purchase order id")
	}
	po, err := s.poRepo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err)
	}
	if po.Status == model.POStatusCompleted {
		return nil, validationf("purchase order %s is already completed", po.PONo)
	}

	lines := map[uuid.UUID]*model.PurchaseOrderItem{}
	for i := range po.Items {
		lines[po.Items[i].ID] = &po.Items[i]
	}

	receivedDate := time.Now()
	if req.ReceivedDate != nil {
		receivedDate = *req.ReceivedDate
	}

	// Validate every line up front; nothing is written for a partially
	// invalid payload.
	type receipt struct {
		line  *model.PurchaseOrderItem
		units []dto.UnitInput
	}
	var receipts []receipt
	for _, in := range req.Items {
		lineID, err := uuid.Parse(in.POItemID)
		if err != nil {
			return nil, validationf("invalid po_item_id %q", in.POItemID)
		}
		line, ok := lines[lineID]
		if !ok {
			return nil, validationf("po_item_id %s does not belong to purchase order %s", lineID, po.PONo)
		}
		if len(in.Units) == 0 {
			return nil, validationf("line %s: at least one unit is required", lineID)
		}
		outstanding := line.Qty - line.DeliveredQty
		if len(in.Units) > outstanding {
			return nil, validationf("line %s: %d units received but only %d outstanding", lineID, len(in.Units), outstanding)
		}
		if line.Color == "" {
			return nil, validationf("line %s: purchase order line has no color", lineID)
		}
		receipts = append(receipts, receipt{line: line, units: in.Units})
	}

	var lotIDs []uuid.UUID
	txErr := runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		for _, rc := range receipts {
			qty := len(rc.units)
			lot := model.InventoryMovement{
				BranchID:     po.BranchID,
				ItemID:       rc.line.ItemID,
				SupplierID:   po.SupplierID,
				ReceivedDate: receivedDate,
				DRNo:         req.DRNo,
				SINo:         req.SINo,
				UnitCost:     rc.line.UnitPrice,
				SRP:          lineSRP(rc.line),
				Color:        rc.line.Color,
				Remarks:      fmt.Sprintf("Received from PO %s", po.PONo),
				PurchasedQty: qty,
				EndingQty:    qty,
			}
			if err := s.movRepo.CreateTx(tx, &lot); err != nil {
				return err
			}
			units := make([]model.VehicleUnit, 0, qty)
			for i, in := range rc.units {
				units = append(units, model.VehicleUnit{
					InventoryMovementID: lot.ID,
					EngineNo:            in.EngineNo,
					ChassisNo:           in.ChassisNo,
					UnitNumber:          i + 1,
					Status:              model.UnitStatusAvailable,
				})
			}
			if err := s.unitRepo.CreateBatchTx(tx, units); err != nil {
				return err
			}
			if err := s.poRepo.AddDeliveredTx(tx, rc.line.ID, qty); err != nil {
				return err
			}
			rc.line.DeliveredQty += qty
			lotIDs = append(lotIDs, lot.ID)
		}
		status := model.POStatusCompleted
		for i := range po.Items {
			if po.Items[i].DeliveredQty < po.Items[i].Qty {
				status = model.POStatusPartial
				break
			}
		}
		po.Status = status
		return s.poRepo.SetStatusTx(tx, po.ID, status)
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := &dto.ReceivePOResponse{Success: true, Status: po.Status}
	for _, lotID := range lotIDs {
		created, err := s.movRepo.FindByID(ctx, lotID)
		if err != nil {
			return nil, err
		}
		resp.Lots = append(resp.Lots, toLotResponse(created))
	}
	return resp, nil
}

// lineSRP prefers the catalog list price; a zero catalog price falls back to
// the purchase price so a lot never sells below cost by accident.
func lineSRP(line *model.PurchaseOrderItem) decimal.Decimal {
	if line.Item != nil && !line.Item.ListPrice.IsZero() {
		return line.Item.ListPrice
	}
	return line.UnitPrice
}
