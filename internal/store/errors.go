package store

import (
	"errors"
	"fmt"
)

// ErrDuplicateOrderNo is returned when a caller-supplied order number is
// already taken.
var ErrDuplicateOrderNo = errors.New("order number already exists")

// ErrOrderFulfilled is returned when deleting an order that has already
// affected inventory.
var ErrOrderFulfilled = errors.New("fulfilled orders cannot be deleted")

// InsufficientStockError is returned when a sale fulfillment would drive a
// product's stock below zero. The message wording is load-bearing: clients
// parse and display it as-is.
type InsufficientStockError struct {
	Product string
	Stock   int
	Needed  int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("商品 %s 库存不足，当前库存: %d，需要: %d", e.Product, e.Stock, e.Needed)
}
