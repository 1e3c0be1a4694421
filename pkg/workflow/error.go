package workflow

import "errors"

var (
	errDuplicateOrder     = errors.New("duplicate order")
	errOrderNotFound      = errors.New("order not found")
	errInvalidOrderStatus = errors.New("invalid order status")
	errOverFill           = errors.New("fill exceeds leaves quantity")
	errAllocationNotFound = errors.New("allocation not found")
)
