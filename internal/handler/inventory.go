package handler

import (
	"net/http"

	"primemotors/internal/apierror"
	"primemotors/internal/dto"
	"primemotors/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type InventoryHandler struct{ svc service.InventoryService }

func NewInventoryHandler(svc service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// Create godoc
// @Summary Create an inventory lot with its serialized units
// @Tags inventory
// @Accept json
// @Produce json
// @Param body body dto.CreateLotRequest true "Lot payload"
// @Success 201 {object} dto.LotResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/inventory [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	var req dto.CreateLotRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateLot(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List inventory lots plus undelivered purchase-order lines
// @Tags inventory
// @Produce json
// @Success 200 {object} dto.ListInventoryResponse
// @Router /v1/inventory [get]
func (h *InventoryHandler) List(c *gin.Context) {
	resp, err := h.svc.ListInventory(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary Update lot fields and reconcile its unit list
// @Tags inventory
// @Accept json
// @Produce json
// @Param id path string true "Lot ID"
// @Param body body dto.UpdateLotRequest true "Partial lot payload"
// @Success 200 {object} dto.LotResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventory/{id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid lot id"))
		return
	}
	var req dto.UpdateLotRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateLot(c.Request.Context(), id, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary Force-delete a lot and all of its units
// @Tags inventory
// @Produce json
// @Param id path string true "Lot ID"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventory/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid lot id"))
		return
	}
	if err := h.svc.DeleteLot(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkSold godoc
// @Summary Mark a serialized unit as sold
// @Tags inventory
// @Produce json
// @Param id path string true "Unit ID"
// @Success 200 {object} dto.MarkSoldResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventory/units/{id}/mark-sold [post]
func (h *InventoryHandler) MarkSold(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("invalid unit id"))
		return
	}
	resp, err := h.svc.MarkUnitSold(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
