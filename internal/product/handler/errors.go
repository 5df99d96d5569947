package handler

import (
	"errors"
	"fmt"
)

var errMinAboveMax = errors.New("the minimum price cannot be greater than the maximum price")

func errInvalidFilter(name string) error {
	return fmt.Errorf("invalid value for the %s filter", name)
}
