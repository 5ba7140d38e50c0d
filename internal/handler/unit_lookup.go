package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"primemotors/internal/apierror"
	"primemotors/internal/dto"
	"primemotors/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// UnitLookupHandler serves the counter-side serial number search. Read-only,
// Redis-cached: the same engine/chassis gets asked for repeatedly while a
// deal is being closed.
type UnitLookupHandler struct {
	unitRepo repository.VehicleUnitRepository
	rdb      *redis.Client
	ttl      time.Duration
}

func NewUnitLookupHandler(unitRepo repository.VehicleUnitRepository, rdb *redis.Client, ttl time.Duration) *UnitLookupHandler {
	return &UnitLookupHandler{unitRepo: unitRepo, rdb: rdb, ttl: ttl}
}

// Lookup godoc
// @Summary Find serialized units by engine and/or chassis number
// @Tags units
// @Produce json
// @Param engine_no query string false "Engine number"
// @Param chassis_no query string false "Chassis number"
// @Success 200 {object} dto.UnitLookupResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/units/lookup [get]
func (h *UnitLookupHandler) Lookup(c *gin.Context) {
	engineNo := c.Query("engine_no")
	chassisNo := c.Query("chassis_no")
	if engineNo == "" && chassisNo == "" {
		c.JSON(http.StatusBadRequest, apierror.New("engine_no or chassis_no is required"))
		return
	}

	ctx := c.Request.Context()
	cacheKey := "unitlookup:" + engineNo + "|" + chassisNo

	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
			var resp dto.UnitLookupResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	units, err := h.unitRepo.Search(ctx, engineNo, chassisNo)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := dto.UnitLookupResponse{Units: []dto.UnitLookupHit{}}
	for _, u := range units {
		hit := dto.UnitLookupHit{
			UnitResponse: dto.UnitResponse{
				ID:          u.ID.String(),
				EngineNo:    u.EngineNo,
				ChassisNo:   u.ChassisNo,
				UnitNumber:  u.UnitNumber,
				Status:      u.Status,
				Transferred: u.Transferred,
			},
			InventoryID: u.InventoryMovementID.String(),
		}
		if u.Lot != nil {
			hit.BranchID = u.Lot.BranchID.String()
			hit.Color = u.Lot.Color
			if u.Lot.Branch != nil {
				hit.BranchName = u.Lot.Branch.Name
			}
			if u.Lot.Item != nil {
				hit.ItemName = u.Lot.Item.Name
			}
		}
		resp.Units = append(resp.Units, hit)
	}

	// Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), cacheKey, b, h.ttl).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}
