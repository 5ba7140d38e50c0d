package service

import (
	"context"
	"fmt"
	"time"

	"primemotors/internal/dto"
	"primemotors/internal/model"
	"primemotors/internal/repository"
	"primemotors/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// TransferService is the transfer engine: the unit state transition plus the
// reconciled cross-branch view. It is the only component that writes across
// all three stores.
type TransferService interface {
	TransferUnit(ctx context.Context, req dto.TransferRequest) (*dto.TransferResponse, error)
	ListTransferred(ctx context.Context) (*dto.ListTransferredResponse, error)
}

type transferService struct {
	movRepo     repository.InventoryMovementRepository
	unitRepo    repository.VehicleUnitRepository
	historyRepo repository.TransferredHistoryRepository
	branchRepo  repository.BranchRepository
	dispatcher  *worker.Dispatcher
}

func NewTransferService(
	movRepo repository.InventoryMovementRepository,
	unitRepo repository.VehicleUnitRepository,
	historyRepo repository.TransferredHistoryRepository,
	branchRepo repository.BranchRepository,
	dispatcher *worker.Dispatcher,
) TransferService {
	return &transferService{
		movRepo:     movRepo,
		unitRepo:    unitRepo,
		historyRepo: historyRepo,
		branchRepo:  branchRepo,
		dispatcher:  dispatcher,
	}
}

// ── TransferUnit ─────────────────────────────────────────────────────────────
// The unit is never physically moved: the origin row is frozen in place with
// transferred=true while a shadow lot+unit is created at the destination.
// Steps 1–4 run in one transaction; the history snapshot is a post-commit
// side effect and must never fail or delay the transfer itself.

func (s *transferService) TransferUnit(ctx context.Context, req dto.TransferRequest) (*dto.TransferResponse, error) {
	unitID, err := uuid.Parse(req.UnitID)
	if err != nil {
		return nil, validationf("invalid unit_id")
	}
	toBranchID, err := uuid.Parse(req.ToBranchID)
	if err != nil {
		return nil, validationf("invalid to_branch_id")
	}

	unit, err := s.unitRepo.FindByID(ctx, unitID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	// Early check for the common case; the CAS inside the transaction is
	// what actually decides a concurrent race.
	if unit.Transferred {
		return nil, ErrAlreadyTransferred
	}

	srcLot, err := s.movRepo.FindByID(ctx, unit.InventoryMovementID)
	if err != nil {
		return nil, notFoundOr(err)
	}
	destBranch, err := s.branchRepo.FindByID(ctx, toBranchID)
	if err != nil {
		return nil, notFoundOr(err)
	}

	originName := ""
	if srcLot.Branch != nil {
		originName = srcLot.Branch.Name
	}
	transferLine := fmt.Sprintf("Transferred from %s to %s (engine: %s, chassis: %s)",
		originName, destBranch.Name, derefStr(unit.EngineNo), derefStr(unit.ChassisNo))
	// Only the new lines go down; the repository appends them to whatever the
	// lot's remarks hold at commit time.
	remarkLine := joinRemarks(req.Remarks, transferLine)

	destLot := model.InventoryMovement{
		BranchID:     toBranchID,
		ItemID:       srcLot.ItemID,
		ReceivedDate: time.Now(),
		UnitCost:     srcLot.UnitCost,
		SRP:          srcLot.SRP,
		Color:        srcLot.Color,
		Remarks:      fmt.Sprintf("Transferred in from %s", originName),
		PurchasedQty: 1,
		EndingQty:    1,
	}

	txErr := runTx(ctx, s.movRepo.DB(), func(tx *gorm.DB) error {
		rows, err := s.unitRepo.MarkTransferredTx(tx, unit.ID)
		if err != nil {
			return err
		}
		if rows == 0 {
			// Lost the race: another caller flipped the flag first.
			return ErrAlreadyTransferred
		}
		if err := s.movRepo.ApplyTransferTx(tx, srcLot.ID, remarkLine); err != nil {
			return err
		}
		if err := s.movRepo.CreateTx(tx, &destLot); err != nil {
			return err
		}
		destUnit := model.VehicleUnit{
			InventoryMovementID: destLot.ID,
			EngineNo:            unit.EngineNo,
			ChassisNo:           unit.ChassisNo,
			UnitNumber:          1,
			Status:              unit.Status,
		}
		return s.unitRepo.CreateTx(tx, &destUnit)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Post-commit audit snapshot — best effort. An incomplete audit trail is
	// accepted over a failed business operation; the reconciled view catches
	// missing rows through the live-unit signal source.
	s.writeHistorySnapshot(ctx, srcLot, unit)

	created, err := s.movRepo.FindByID(ctx, destLot.ID)
	if err != nil {
		return nil, err
	}
	return &dto.TransferResponse{
		Success:        true,
		OriginalUnitID: unit.ID.String(),
		NewInventory:   toLotResponse(created),
	}, nil
}

// writeHistorySnapshot records the origin-side audit row. With a dispatcher
// wired it goes through the job queue (failed writes land in the DLQ and are
// retried); without one it is written synchronously, errors logged and
// swallowed.
func (s *transferService) writeHistorySnapshot(ctx context.Context, srcLot *model.InventoryMovement, unit *model.VehicleUnit) {
	snap := &model.TransferredHistory{
		OriginalInventoryID:   srcLot.ID,
		OriginalVehicleUnitID: unit.ID,
		BranchID:              srcLot.BranchID,
		ItemID:                srcLot.ItemID,
		SupplierID:            srcLot.SupplierID,
		ReceivedDate:          srcLot.ReceivedDate,
		DRNo:                  srcLot.DRNo,
		SINo:                  srcLot.SINo,
		UnitCost:              srcLot.UnitCost,
		SRP:                   srcLot.SRP,
		Color:                 srcLot.Color,
		Remarks:               srcLot.Remarks,
		BeginningQty:          srcLot.BeginningQty,
		PurchasedQty:          srcLot.PurchasedQty,
		TransferredQty:        srcLot.TransferredQty,
		SoldQty:               srcLot.SoldQty,
		EndingQty:             srcLot.EndingQty,
		EngineNo:              unit.EngineNo,
		ChassisNo:             unit.ChassisNo,
		UnitNumber:            unit.UnitNumber,
		Status:                "transferred",
	}

	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueHistorySnapshot(ctx, snap); err != nil {
			log.Warn().Err(err).
				Str("unit_id", unit.ID.String()).
				Msg("transfer: failed to enqueue history snapshot")
		}
		return
	}
	if err := s.historyRepo.Create(ctx, snap); err != nil {
		log.Error().Err(err).
			Str("unit_id", unit.ID.String()).
			Str("inventory_id", srcLot.ID.String()).
			Msg("transfer: history snapshot write failed, continuing")
	}
}

// ── ListTransferred ──────────────────────────────────────────────────────────
// Reconstructs the transfer view from two signal sources that were never
// designed to be joined: history snapshots and live units spanning branches.
// History is processed first so it wins dedup ties.

func (s *transferService) ListTransferred(ctx context.Context) (*dto.ListTransferredResponse, error) {
	resp := &dto.ListTransferredResponse{Transferred: []dto.TransferredEntry{}}
	// Dedup by engine|chassis|branch|inventory, first occurrence kept.
	seen := map[string]bool{}

	history, err := s.historyRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, group := range groupHistory(history) {
		for i, row := range group {
			entry := historyEntry(row)
			for j, sibling := range group {
				if j == i {
					continue
				}
				entry.Counterparts = append(entry.Counterparts, historyCounterpart(sibling))
			}
			dedupAppend(resp, seen, entry)
		}
	}

	units, err := s.unitRepo.ListSerialized(ctx)
	if err != nil {
		return nil, err
	}
	for _, group := range groupUnits(units) {
		if !spansBranches(group) {
			continue
		}
		for i, u := range group {
			entry := liveEntry(u)
			for j, sibling := range group {
				if j == i {
					continue
				}
				entry.Counterparts = append(entry.Counterparts, liveCounterpart(sibling))
			}
			dedupAppend(resp, seen, entry)
		}
	}
	return resp, nil
}

// groupHistory buckets snapshots by natural key, preserving first-seen order
// so repeated calls yield identical output.
func groupHistory(rows []model.TransferredHistory) [][]model.TransferredHistory {
	byKey := map[string]int{}
	var groups [][]model.TransferredHistory
	for _, row := range rows {
		k := natKey(row.EngineNo, row.ChassisNo)
		idx, ok := byKey[k]
		if !ok {
			idx = len(groups)
			byKey[k] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], row)
	}
	return groups
}

func groupUnits(units []model.VehicleUnit) [][]model.VehicleUnit {
	byKey := map[string]int{}
	var groups [][]model.VehicleUnit
	for _, u := range units {
		k := natKey(u.EngineNo, u.ChassisNo)
		idx, ok := byKey[k]
		if !ok {
			idx = len(groups)
			byKey[k] = idx
			groups = append(groups, nil)
		}
		groups[idx] = append(groups[idx], u)
	}
	return groups
}

// spansBranches reports whether a live-unit group reaches across more than
// one branch, inferred through each unit's owning lot. Single-branch groups
// are plain duplicates, not transfers.
func spansBranches(group []model.VehicleUnit) bool {
	var first *uuid.UUID
	for _, u := range group {
		if u.Lot == nil {
			continue
		}
		b := u.Lot.BranchID
		if first == nil {
			first = &b
			continue
		}
		if *first != b {
			return true
		}
	}
	return false
}

func historyEntry(row model.TransferredHistory) dto.TransferredEntry {
	at := row.CreatedAt
	entry := dto.TransferredEntry{
		EngineNo:      row.EngineNo,
		ChassisNo:     row.ChassisNo,
		InventoryID:   row.OriginalInventoryID.String(),
		BranchID:      row.BranchID.String(),
		Status:        row.Status,
		Color:         row.Color,
		Source:        "history",
		TransferredAt: &at,
		Counterparts:  []dto.TransferredCounterpart{},
	}
	if row.Branch != nil {
		entry.BranchName = row.Branch.Name
	}
	return entry
}

func historyCounterpart(row model.TransferredHistory) dto.TransferredCounterpart {
	at := row.CreatedAt
	cp := dto.TransferredCounterpart{
		InventoryID:   row.OriginalInventoryID.String(),
		BranchID:      row.BranchID.String(),
		Status:        row.Status,
		Source:        "history",
		TransferredAt: &at,
	}
	if row.Branch != nil {
		cp.BranchName = row.Branch.Name
	}
	return cp
}

func liveEntry(u model.VehicleUnit) dto.TransferredEntry {
	entry := dto.TransferredEntry{
		EngineNo:     u.EngineNo,
		ChassisNo:    u.ChassisNo,
		InventoryID:  u.InventoryMovementID.String(),
		Status:       u.Status,
		Source:       "live",
		Counterparts: []dto.TransferredCounterpart{},
	}
	if u.Lot != nil {
		entry.BranchID = u.Lot.BranchID.String()
		entry.Color = u.Lot.Color
		if u.Lot.Branch != nil {
			entry.BranchName = u.Lot.Branch.Name
		}
	}
	return entry
}

func liveCounterpart(u model.VehicleUnit) dto.TransferredCounterpart {
	cp := dto.TransferredCounterpart{
		InventoryID: u.InventoryMovementID.String(),
		Status:      u.Status,
		Source:      "live",
	}
	if u.Lot != nil {
		cp.BranchID = u.Lot.BranchID.String()
		if u.Lot.Branch != nil {
			cp.BranchName = u.Lot.Branch.Name
		}
	}
	return cp
}

func dedupAppend(resp *dto.ListTransferredResponse, seen map[string]bool, entry dto.TransferredEntry) {
	key := derefStr(entry.EngineNo) + "|" + derefStr(entry.ChassisNo) + "|" + entry.BranchID + "|" + entry.InventoryID
	if seen[key] {
		return
	}
	seen[key] = true
	resp.Transferred = append(resp.Transferred, entry)
}
