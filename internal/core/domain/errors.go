package domain

import "errors"

// Ledger / transaction errors.
var ErrValidation = errors.New("validation failed")
var ErrCustomerNotFound = errors.New("customer not found")
var ErrAccountExists = errors.New("customer account already exists")
var ErrProductNotFound = errors.New("product not found")
var ErrProductArchived = errors.New("product is archived")
var ErrProductNotAvailable = errors.New("product not sold at this counter")
var ErrCounterNotFound = errors.New("counter not found")
var ErrDuplicateTransaction = errors.New("transaction with this idempotency key already recorded")

// Session registry errors.
var ErrNotLoggedIn = errors.New("operator not logged in at this counter")
var ErrEmptySession = errors.New("no active operator at this counter")

// Auth errors.
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrOperatorNotFound = errors.New("operator not found")
var ErrOperatorExists = errors.New("operator already exists")
var ErrForbidden = errors.New("access forbidden")
