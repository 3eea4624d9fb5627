package contract

import "errors"

var (
	ErrValidation      = errors.New("validation failed")
	ErrClassifier      = errors.New("intent classifier failed")
	ErrNoPrediction    = errors.New("classifier returned no predictions")
	ErrGateway         = errors.New("bank gateway unavailable")
	ErrAccountNotFound = errors.New("account not found")
)
