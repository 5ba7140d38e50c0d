package tests

import (
	"context"
	"sort"
	"time"

	"primemotors/internal/model"
	"primemotors/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── In-memory store ───────────────────────────────────────────────────────────
// One shared store backs all stub repositories so relations (lot ↔ units,
// lot ↔ branch) stay consistent the way preloads would make them.

type memStore struct {
	lots      map[uuid.UUID]*model.InventoryMovement
	lotOrder  []uuid.UUID
	units     map[uuid.UUID]*model.VehicleUnit
	unitOrder []uuid.UUID
	histories []model.TransferredHistory
	branches  map[uuid.UUID]*model.Branch
	items     map[uuid.UUID]*model.Item
	suppliers map[uuid.UUID]*model.Supplier
	pos       map[uuid.UUID]*model.PurchaseOrder
}

func newMemStore() *memStore {
	return &memStore{
		lots:      map[uuid.UUID]*model.InventoryMovement{},
		units:     map[uuid.UUID]*model.VehicleUnit{},
		branches:  map[uuid.UUID]*model.Branch{},
		items:     map[uuid.UUID]*model.Item{},
		suppliers: map[uuid.UUID]*model.Supplier{},
		pos:       map[uuid.UUID]*model.PurchaseOrder{},
	}
}

// lotView returns a copy of the lot with relations resolved, mimicking the
// repository's preloads.
func (st *memStore) lotView(id uuid.UUID) (*model.InventoryMovement, error) {
	lot, ok := st.lots[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	view := *lot
	view.Branch = st.branches[lot.BranchID]
	view.Item = st.items[lot.ItemID]
	if lot.SupplierID != nil {
		view.Supplier = st.suppliers[*lot.SupplierID]
	}
	view.Units = nil
	for _, uid := range st.unitOrder {
		u, ok := st.units[uid]
		if !ok || u.InventoryMovementID != id {
			continue
		}
		view.Units = append(view.Units, *u)
	}
	sort.SliceStable(view.Units, func(i, j int) bool {
		return view.Units[i].UnitNumber < view.Units[j].UnitNumber
	})
	return &view, nil
}

func (st *memStore) unitView(id uuid.UUID) (*model.VehicleUnit, error) {
	u, ok := st.units[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	view := *u
	if lot, err := st.lotView(u.InventoryMovementID); err == nil {
		view.Lot = lot
	}
	return &view, nil
}

// ── Movement repo stub ────────────────────────────────────────────────────────

type stubMovementRepo struct{ st *memStore }

func (r *stubMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*model.InventoryMovement, error) {
	return r.st.lotView(id)
}

func (r *stubMovementRepo) ListAll(_ context.Context) ([]model.InventoryMovement, error) {
	var lots []model.InventoryMovement
	for _, id := range r.st.lotOrder {
		if _, ok := r.st.lots[id]; !ok {
			continue
		}
		view, err := r.st.lotView(id)
		if err != nil {
			return nil, err
		}
		lots = append(lots, *view)
	}
	return lots, nil
}

func (r *stubMovementRepo) CreateTx(_ *gorm.DB, m *model.InventoryMovement) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	cp := *m
	cp.Units = nil
	r.st.lots[m.ID] = &cp
	r.st.lotOrder = append(r.st.lotOrder, m.ID)
	return nil
}

func (r *stubMovementRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.InventoryMovement, error) {
	return r.st.lotView(id)
}

func (r *stubMovementRepo) UpdateFieldsTx(_ *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	lot, ok := r.st.lots[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for k, v := range fields {
		switch k {
		case "supplier_id":
			sid := v.(uuid.UUID)
			lot.SupplierID = &sid
		case "received_date":
			lot.ReceivedDate = v.(time.Time)
		case "dr_no":
			s := v.(string)
			lot.DRNo = &s
		case "si_no":
			s := v.(string)
			lot.SINo = &s
		case "unit_cost":
			lot.UnitCost = v.(decimal.Decimal)
		case "srp":
			lot.SRP = v.(decimal.Decimal)
		case "color":
			lot.Color = v.(string)
		case "remarks":
			lot.Remarks = v.(string)
		case "beginning_qty":
			lot.BeginningQty = v.(int)
		case "purchased_qty":
			lot.PurchasedQty = v.(int)
		}
	}
	return nil
}

func (r *stubMovementRepo) ApplyTransferTx(_ *gorm.DB, id uuid.UUID, remarkLine string) error {
	lot, ok := r.st.lots[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	lot.TransferredQty++
	lot.EndingQty--
	// Mirrors the SQL append so earlier remark lines survive.
	if lot.Remarks == "" {
		lot.Remarks = remarkLine
	} else {
		lot.Remarks += "\n" + remarkLine
	}
	return nil
}

func (r *stubMovementRepo) IncrementSoldTx(_ *gorm.DB, id uuid.UUID) error {
	lot, ok := r.st.lots[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	lot.SoldQty++
	lot.EndingQty--
	return nil
}

func (r *stubMovementRepo) DeleteTx(_ *gorm.DB, id uuid.UUID) error {
	delete(r.st.lots, id)
	return nil
}

func (r *stubMovementRepo) DB() *gorm.DB { return nil }

var _ repository.InventoryMovementRepository = (*stubMovementRepo)(nil)

// ── Vehicle unit repo stub ────────────────────────────────────────────────────

type stubUnitRepo struct{ st *memStore }

func (r *stubUnitRepo) FindByID(_ context.Context, id uuid.UUID) (*model.VehicleUnit, error) {
	return r.st.unitView(id)
}

func (r *stubUnitRepo) FindByLotID(_ context.Context, lotID uuid.UUID) ([]model.VehicleUnit, error) {
	var units []model.VehicleUnit
	for _, uid := range r.st.unitOrder {
		u, ok := r.st.units[uid]
		if ok && u.InventoryMovementID == lotID {
			units = append(units, *u)
		}
	}
	sort.SliceStable(units, func(i, j int) bool { return units[i].UnitNumber < units[j].UnitNumber })
	return units, nil
}

func (r *stubUnitRepo) ListSerialized(_ context.Context) ([]model.VehicleUnit, error) {
	var units []model.VehicleUnit
	for _, uid := range r.st.unitOrder {
		u, ok := r.st.units[uid]
		if !ok {
			continue
		}
		if u.EngineNo == nil && u.ChassisNo == nil {
			continue
		}
		view, err := r.st.unitView(uid)
		if err != nil {
			return nil, err
		}
		units = append(units, *view)
	}
	return units, nil
}

func (r *stubUnitRepo) Search(_ context.Context, engineNo, chassisNo string) ([]model.VehicleUnit, error) {
	var units []model.VehicleUnit
	for _, uid := range r.st.unitOrder {
		u, ok := r.st.units[uid]
		if !ok {
			continue
		}
		if engineNo != "" && (u.EngineNo == nil || *u.EngineNo != engineNo) {
			continue
		}
		if chassisNo != "" && (u.ChassisNo == nil || *u.ChassisNo != chassisNo) {
			continue
		}
		view, err := r.st.unitView(uid)
		if err != nil {
			return nil, err
		}
		units = append(units, *view)
	}
	return units, nil
}

func (r *stubUnitRepo) CreateTx(_ *gorm.DB, u *model.VehicleUnit) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	cp := *u
	cp.Lot = nil
	r.st.units[u.ID] = &cp
	r.st.unitOrder = append(r.st.unitOrder, u.ID)
	return nil
}

func (r *stubUnitRepo) CreateBatchTx(tx *gorm.DB, units []model.VehicleUnit) error {
	for i := range units {
		if err := r.CreateTx(tx, &units[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubUnitRepo) MarkTransferredTx(_ *gorm.DB, id uuid.UUID) (int64, error) {
	u, ok := r.st.units[id]
	if !ok || u.Transferred {
		return 0, nil
	}
	u.Transferred = true
	return 1, nil
}

func (r *stubUnitRepo) MarkSoldTx(_ *gorm.DB, id uuid.UUID) (int64, error) {
	u, ok := r.st.units[id]
	if !ok || u.Transferred || u.Status == model.UnitStatusSold {
		return 0, nil
	}
	u.Status = model.UnitStatusSold
	return 1, nil
}

func (r *stubUnitRepo) DeleteAvailableTx(_ *gorm.DB, lotID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		u, ok := r.st.units[id]
		if !ok || u.InventoryMovementID != lotID {
			continue
		}
		if u.Transferred || (u.Status != "" && u.Status != model.UnitStatusAvailable) {
			continue
		}
		delete(r.st.units, id)
	}
	return nil
}

func (r *stubUnitRepo) DeleteByLotTx(_ *gorm.DB, lotID uuid.UUID) error {
	for id, u := range r.st.units {
		if u.InventoryMovementID == lotID {
			delete(r.st.units, id)
		}
	}
	return nil
}

var _ repository.VehicleUnitRepository = (*stubUnitRepo)(nil)

// ── History repo stub ─────────────────────────────────────────────────────────

type stubHistoryRepo struct {
	st *memStore
	// createErr, when set, makes Create fail — used to verify the transfer
	// survives a broken history store.
	createErr error
	createN   int
}

func (r *stubHistoryRepo) Create(_ context.Context, h *model.TransferredHistory) error {
	r.createN++
	if r.createErr != nil {
		return r.createErr
	}
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	h.CreatedAt = time.Now()
	r.st.histories = append(r.st.histories, *h)
	return nil
}

func (r *stubHistoryRepo) ListAll(_ context.Context) ([]model.TransferredHistory, error) {
	out := make([]model.TransferredHistory, len(r.st.histories))
	for i, h := range r.st.histories {
		h.Branch = r.st.branches[h.BranchID]
		h.Item = r.st.items[h.ItemID]
		out[i] = h
	}
	return out, nil
}

var _ repository.TransferredHistoryRepository = (*stubHistoryRepo)(nil)

// ── Registry repo stubs ───────────────────────────────────────────────────────

type stubBranchRepo struct{ st *memStore }

func (r *stubBranchRepo) Create(_ context.Context, b *model.Branch) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	r.st.branches[b.ID] = b
	return nil
}

func (r *stubBranchRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Branch, error) {
	b, ok := r.st.branches[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (r *stubBranchRepo) List(_ context.Context) ([]model.Branch, error) {
	var out []model.Branch
	for _, b := range r.st.branches {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var _ repository.BranchRepository = (*stubBranchRepo)(nil)

type stubItemRepo struct{ st *memStore }

func (r *stubItemRepo) Create(_ context.Context, i *model.Item) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	r.st.items[i.ID] = i
	return nil
}

func (r *stubItemRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Item, error) {
	i, ok := r.st.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (r *stubItemRepo) List(_ context.Context) ([]model.Item, error) {
	var out []model.Item
	for _, i := range r.st.items {
		out = append(out, *i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var _ repository.ItemRepository = (*stubItemRepo)(nil)

type stubSupplierRepo struct{ st *memStore }

func (r *stubSupplierRepo) Create(_ context.Context, s *model.Supplier) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	r.st.suppliers[s.ID] = s
	return nil
}

func (r *stubSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Supplier, error) {
	s, ok := r.st.suppliers[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}

func (r *stubSupplierRepo) List(_ context.Context) ([]model.Supplier, error) {
	var out []model.Supplier
	for _, s := range r.st.suppliers {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

var _ repository.SupplierRepository = (*stubSupplierRepo)(nil)

// ── Purchase order repo stub ──────────────────────────────────────────────────

type stubPORepo struct{ st *memStore }

func (r *stubPORepo) FindByID(_ context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	po, ok := r.st.pos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	view := *po
	view.Branch = r.st.branches[po.BranchID]
	view.Items = make([]model.PurchaseOrderItem, len(po.Items))
	for i, line := range po.Items {
		line.Item = r.st.items[line.ItemID]
		view.Items[i] = line
	}
	return &view, nil
}

func (r *stubPORepo) ListPendingLines(_ context.Context) ([]model.PurchaseOrderItem, error) {
	var lines []model.PurchaseOrderItem
	for _, po := range r.st.pos {
		if po.Status == model.POStatusCompleted {
			continue
		}
		for _, line := range po.Items {
			if line.Qty <= line.DeliveredQty {
				continue
			}
			order := *po
			line.Order = &order
			line.Item = r.st.items[line.ItemID]
			lines = append(lines, line)
		}
	}
	return lines, nil
}

func (r *stubPORepo) AddDeliveredTx(_ *gorm.DB, itemID uuid.UUID, qty int) error {
	for _, po := range r.st.pos {
		for i := range po.Items {
			if po.Items[i].ID == itemID {
				po.Items[i].DeliveredQty += qty
				return nil
			}
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubPORepo) SetStatusTx(_ *gorm.DB, poID uuid.UUID, status string) error {
	po, ok := r.st.pos[poID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	po.Status = status
	return nil
}

var _ repository.PurchaseOrderRepository = (*stubPORepo)(nil)

// ── Seed helpers ──────────────────────────────────────────────────────────────

func strPtr(s string) *string { return &s }

func seedBranch(st *memStore, name string) *model.Branch {
	b := &model.Branch{ID: uuid.New(), Name: name, Active: true}
	st.branches[b.ID] = b
	return b
}

func seedItem(st *memStore, name string) *model.Item {
	i := &model.Item{ID: uuid.New(), Name: name, ListPrice: decimal.NewFromInt(79900), Active: true}
	st.items[i.ID] = i
	return i
}

func seedLot(st *memStore, branch *model.Branch, item *model.Item, qty int) *model.InventoryMovement {
	lot := &model.InventoryMovement{
		ID:           uuid.New(),
		BranchID:     branch.ID,
		ItemID:       item.ID,
		ReceivedDate: time.Now(),
		UnitCost:     decimal.NewFromInt(65000),
		SRP:          decimal.NewFromInt(79900),
		Color:        "red",
		PurchasedQty: qty,
		EndingQty:    qty,
		CreatedAt:    time.Now(),
	}
	st.lots[lot.ID] = lot
	st.lotOrder = append(st.lotOrder, lot.ID)
	return lot
}

func seedUnit(st *memStore, lot *model.InventoryMovement, unitNumber int, engineNo, chassisNo string) *model.VehicleUnit {
	u := &model.VehicleUnit{
		ID:                  uuid.New(),
		InventoryMovementID: lot.ID,
		UnitNumber:          unitNumber,
		Status:              model.UnitStatusAvailable,
		CreatedAt:           time.Now(),
	}
	if engineNo != "" {
		u.EngineNo = strPtr(engineNo)
	}
	if chassisNo != "" {
		u.ChassisNo = strPtr(chassisNo)
	}
	st.units[u.ID] = u
	st.unitOrder = append(st.unitOrder, u.ID)
	return u
}
