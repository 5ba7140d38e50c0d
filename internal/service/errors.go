package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors shared by the ledger services. Handlers map these onto the
// HTTP taxonomy: validation → 400, not-found → 404, already-transferred →
// 400 with an explicit conflict message, anything else → 500.
var (
	ErrNotFound           = errors.New("record not found")
	ErrAlreadyTransferred = errors.New("unit already transferred")
	ErrAlreadySold        = errors.New("unit already sold")
)

// ErrValidation wraps caller-input problems detected after binding, e.g. an
// empty color on a lot update.
var ErrValidation = errors.New("validation error")

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrValidation}, args...)...)
}

// notFoundOr translates gorm's record-not-found into the service sentinel so
// handlers never have to import gorm.
func notFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return db.WithContext(ctx).Transaction(fn)
}

// joinRemarks newline-joins non-empty remark fragments, preserving order.
func joinRemarks(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n")
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// natKey builds the engine|chassis natural key used to correlate the same
// physical unit across lots, branches, and history snapshots.
func natKey(engineNo, chassisNo *string) string {
	return derefStr(engineNo) + "|" + derefStr(chassisNo)
}
