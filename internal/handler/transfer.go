package handler

import (
	"net/http"

	"primemotors/internal/dto"
	"primemotors/internal/service"

	"github.com/gin-gonic/gin"
)

type TransferHandler struct{ svc service.TransferService }

func NewTransferHandler(svc service.TransferService) *TransferHandler {
	return &TransferHandler{svc: svc}
}

// Transfer godoc
// @Summary Transfer a serialized unit to another branch
// @Tags transfer
// @Accept json
// @Produce json
// @Param body body dto.TransferRequest true "Transfer payload"
// @Success 200 {object} dto.TransferResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/inventory/transfer [post]
func (h *TransferHandler) Transfer(c *gin.Context) {
	var req dto.TransferRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.TransferUnit(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListTransferred godoc
// @Summary Reconciled cross-branch transfer view
// @Tags transfer
// @Produce json
// @Success 200 {object} dto.ListTransferredResponse
// @Router /v1/inventory/transferred [get]
func (h *TransferHandler) ListTransferred(c *gin.Context) {
	resp, err := h.svc.ListTransferred(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
