package handler

import (
	"net/http"

	"primemotors/internal/dto"
	"primemotors/internal/service"

	"github.com/gin-gonic/gin"
)

// RegistriesHandler serves the branch/item/supplier reference endpoints.
type RegistriesHandler struct{ svc service.RegistryService }

func NewRegistriesHandler(svc service.RegistryService) *RegistriesHandler {
	return &RegistriesHandler{svc: svc}
}

func (h *RegistriesHandler) CreateBranch(c *gin.Context) {
	var req dto.CreateBranchRequest
	if !bindAndValidate(c, &req) {
		return
	}
	b, err := h.svc.CreateBranch(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

func (h *RegistriesHandler) ListBranches(c *gin.Context) {
	branches, err := h.svc.ListBranches(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, branches)
}

func (h *RegistriesHandler) CreateItem(c *gin.Context) {
	var req dto.CreateItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	item, err := h.svc.CreateItem(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *RegistriesHandler) ListItems(c *gin.Context) {
	items, err := h.svc.ListItems(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *RegistriesHandler) CreateSupplier(c *gin.Context) {
	var req dto.CreateSupplierRequest
	if !bindAndValidate(c, &req) {
		return
	}
	sup, err := h.svc.CreateSupplier(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, sup)
}

func (h *RegistriesHandler) ListSuppliers(c *gin.Context) {
	suppliers, err := h.svc.ListSuppliers(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, suppliers)
}
