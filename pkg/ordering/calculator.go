// Package ordering holds the preorder arithmetic: lead-time validation,
// send-time derivation and order-total computation. Every function is pure
// and takes the clock as an argument, so callers own "now".
package ordering

import (
	"errors"
	"fmt"
	"time"

	"github.com/example/preorder/pkg/repository"
)

// DefaultPrepMinutes applies when a request carries no prep duration.
const DefaultPrepMinutes = 20

// ValidationError marks a deterministic input problem. Handlers map it to a
// client error response; it is never retried.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func Invalidf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// ValidateAndDeriveSendTime checks that the requested pickup leaves enough
// lead time and returns the moment the kitchen must start preparing.
// The boundary is inclusive: pickup exactly now+prep is accepted.
func ValidateAndDeriveSendTime(pickupTime time.Time, prepMinutes int, now time.Time) (time.Time, error) {
	if prepMinutes <= 0 {
		prepMinutes = DefaultPrepMinutes
	}
	prep := time.Duration(prepMinutes) * time.Minute
	if pickupTime.Before(now.Add(prep)) {
		return time.Time{}, Invalidf("lead time too short: pickup must be at least %d minutes from now", prepMinutes)
	}
	return pickupTime.Add(-prep), nil
}

// LineRequest is one (menu item, quantity) pair of an incoming order.
type LineRequest struct {
	ItemID   uint
	Quantity int
}

// Line is a resolved order line carrying the price snapshot.
type Line struct {
	ItemID    uint
	Quantity  int
	UnitPrice float64
	Subtotal  float64
}

// PriceLookup resolves a menu item id to its current price. It returns
// repository.ErrNotFound for unknown ids.
type PriceLookup func(itemID uint) (float64, error)

// ComputeOrderTotals resolves every line against the catalog and sums the
// subtotals. Prices are snapshotted here: the returned lines keep the value
// the lookup produced, independent of later catalog changes. An empty input
// yields no lines and a zero total.
func ComputeOrderTotals(lines []LineRequest, lookup PriceLookup) ([]Line, float64, error) {
	resolved := make([]Line, 0, len(lines))
	var total float64
	for _, req := range lines {
		if req.Quantity <= 0 {
			return nil, 0, Invalidf("quantity must be positive for item %d", req.ItemID)
		}
		price, err := lookup(req.ItemID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, 0, Invalidf("item %d not found", req.ItemID)
			}
			return nil, 0, err
		}
		subtotal := price * float64(req.Quantity)
		resolved = append(resolved, Line{
			ItemID:    req.ItemID,
			Quantity:  req.Quantity,
			UnitPrice: price,
			Subtotal:  subtotal,
		})
		total += subtotal
	}
	return resolved, total, nil
}
