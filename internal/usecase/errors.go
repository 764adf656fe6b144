package usecase

import "errors"

// Every failure mode is a named abort: the call makes no state change and
// the handler maps the sentinel to an HTTP status.
var (
	// authorization
	ErrNotAdmin           = errors.New("caller does not hold the global admin role")
	ErrNotRoleAdmin       = errors.New("caller does not administer this role")
	ErrNotDeviceManager   = errors.New("caller does not hold the device manager role")
	ErrNotDataManager     = errors.New("caller does not hold the data manager role")
	ErrNotOracle          = errors.New("caller does not hold the oracle role")
	ErrUnauthorized       = errors.New("caller is not the device owner")
	ErrUnauthorizedAccess = errors.New("caller is neither the device owner nor a data manager")

	// not-found / duplicate
	ErrUnknownRole      = errors.New("unknown role identifier")
	ErrDeviceExists     = errors.New("device already registered")
	ErrDeviceNotFound   = errors.New("device not found")
	ErrInvalidDevice    = errors.New("device is not active")
	ErrInvalidData      = errors.New("invalid data")
	ErrAlreadyValidated = errors.New("record already validated")

	// input shape
	ErrArrayLengthMismatch = errors.New("input arrays have different lengths")
	ErrInvalidDeviceType   = errors.New("invalid device type or oversized field")
	ErrInvalidPercentage   = errors.New("slash percentage must be between 0 and 100")
	ErrInvalidSignature    = errors.New("invalid registration signature")

	// business rules
	ErrNoRewardsAvailable  = errors.New("no rewards available")
	ErrAmountOverflow      = errors.New("reward amount overflows the balance type")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPaused              = errors.New("mutations are paused")
	ErrDeviceRetired       = errors.New("device is retired")

	// oracle / disputes
	ErrRecordAlreadyValid = errors.New("record already marked valid")
	ErrDuplicateRequest   = errors.New("verification request already exists for this record")
	ErrRequestNotFound    = errors.New("verification request not found")
	ErrAlreadyResolved    = errors.New("verification request already resolved")
	ErrDisputeActive      = errors.New("dispute timeout has not elapsed")
)
