package handler

import (
	"net/http"

	"primemotors/internal/dto"
	"primemotors/internal/service"

	"github.com/gin-gonic/gin"
)

type ReceivingHandler struct{ svc service.ReceivingService }

func NewReceivingHandler(svc service.ReceivingService) *ReceivingHandler {
	return &ReceivingHandler{svc: svc}
}

// Receive godoc
// @Summary Receive purchase-order lines as inventory lots
// @Tags purchase-orders
// @Accept json
// @Produce json
// @Param id path string true "Purchase order ID"
// @Param body body dto.ReceivePORequest true "Receipt payload"
// @Success 200 {object} dto.ReceivePOResponse
// @Failure 400 {object} apierror.APIError
// @Failure 404 {object} apierror.APIError
// @Router /v1/purchase-orders/{id}/receive [post]
func (h *ReceivingHandler) Receive(c *gin.Context) {
	var req dto.ReceivePORequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.ReceivePurchaseOrder(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
