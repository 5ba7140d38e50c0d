package service

import (
	"context"

	"primemotors/internal/dto"
	"primemotors/internal/model"
	"primemotors/internal/repository"
)

// RegistryService exposes the reference entities the ledger hangs off of.
// Plain CRUD, no business rules beyond what the database enforces.
type RegistryService interface {
	CreateBranch(ctx context.Context, req dto.CreateBranchRequest) (*model.Branch, error)
	ListBranches(ctx context.Context) ([]model.Branch, error)
	CreateItem(ctx context.Context, req dto.CreateItemRequest) (*model.Item, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*model.Supplier, error)
	ListSuppliers(ctx context.Context) ([]model.Supplier, error)
}

type registryService struct {
	branchRepo   repository.BranchRepository
	itemRepo     repository.ItemRepository
	supplierRepo repository.SupplierRepository
}

func NewRegistryService(
	branchRepo repository.BranchRepository,
	itemRepo repository.ItemRepository,
	supplierRepo repository.SupplierRepository,
) RegistryService {
	return &registryService{branchRepo: branchRepo, itemRepo: itemRepo, supplierRepo: supplierRepo}
}

func (s *registryService) CreateBranch(ctx context.Context, req dto.CreateBranchRequest) (*model.Branch, error) {
	b := &model.Branch{
		Name:    req.Name,
		Address: req.Address,
		Phone:   req.Phone,
		Active:  true,
	}
	if err := s.branchRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *registryService) ListBranches(ctx context.Context) ([]model.Branch, error) {
	return s.branchRepo.List(ctx)
}

func (s *registryService) CreateItem(ctx context.Context, req dto.CreateItemRequest) (*model.Item, error) {
	i := &model.Item{
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		ListPrice:   req.ListPrice,
		Active:      true,
	}
	if err := s.itemRepo.Create(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *registryService) ListItems(ctx context.Context) ([]model.Item, error) {
	return s.itemRepo.List(ctx)
}

func (s *registryService) CreateSupplier(ctx context.Context, req dto.CreateSupplierRequest) (*model.Supplier, error) {
	sup := &model.Supplier{
		Name:    req.Name,
		TIN:     req.TIN,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Active:  true,
	}
	if err := s.supplierRepo.Create(ctx, sup); err != nil {
		return nil, err
	}
	return sup, nil
}

func (s *registryService) ListSuppliers(ctx context.Context) ([]model.Supplier, error) {
	return s.supplierRepo.List(ctx)
}
