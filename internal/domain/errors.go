package domain

import (
	"net/http"

	"github.com/spec-kit/vesting-service/pkg/util/errorutil"
)

// Vesting engine failures. Each aborts the whole state transition.
var (
	ErrDuplicatePool               = errorutil.NewDomainError("DUPLICATE_POOL", "vesting pool already exists", http.StatusConflict, nil)
	ErrDuplicateEnrollment         = errorutil.NewDomainError("DUPLICATE_ENROLLMENT", "beneficiary already enrolled in pool", http.StatusConflict, nil)
	ErrUnauthorized                = errorutil.NewDomainError("UNAUTHORIZED", "signer is not permitted for this operation", http.StatusForbidden, nil)
	ErrInvalidSchedule             = errorutil.NewDomainError("INVALID_SCHEDULE", "invalid vesting schedule", http.StatusUnprocessableEntity, nil)
	ErrRecordNotFound              = errorutil.NewDomainError("RECORD_NOT_FOUND", "vesting record not found", http.StatusNotFound, nil)
	ErrPoolNotFound                = errorutil.NewDomainError("POOL_NOT_FOUND", "vesting pool not found", http.StatusNotFound, nil)
	ErrNothingToClaim              = errorutil.NewRetryable("NOTHING_TO_CLAIM", "nothing to claim yet", http.StatusConflict)
	ErrInsufficientTreasuryBalance = errorutil.NewDomainError("INSUFFICIENT_TREASURY_BALANCE", "treasury balance too low for claim", http.StatusConflict, nil)
	ErrArithmeticOverflow          = errorutil.NewDomainError("ARITHMETIC_OVERFLOW", "arithmetic overflow", http.StatusUnprocessableEntity, nil)
	ErrInvalidCompanyName          = errorutil.NewDomainError("INVALID_COMPANY_NAME", "company name must be 1-32 bytes", http.StatusBadRequest, nil)
)

// Token ledger failures.
var (
	ErrMintNotFound      = errorutil.NewDomainError("MINT_NOT_FOUND", "mint not found", http.StatusNotFound, nil)
	ErrAccountNotFound   = errorutil.NewDomainError("ACCOUNT_NOT_FOUND", "token account not found", http.StatusNotFound, nil)
	ErrAccountExists     = errorutil.NewDomainError("ACCOUNT_EXISTS", "account already initialized", http.StatusConflict, nil)
	ErrMintMismatch      = errorutil.NewDomainError("MINT_MISMATCH", "token accounts hold different mints", http.StatusBadRequest, nil)
	ErrInsufficientFunds = errorutil.NewDomainError("INSUFFICIENT_FUNDS", "insufficient funds", http.StatusConflict, nil)
	ErrInvalidAuthority  = errorutil.NewDomainError("INVALID_AUTHORITY", "authority does not control the account", http.StatusForbidden, nil)
	ErrInvalidAmount     = errorutil.NewDomainError("INVALID_AMOUNT", "amount must be positive", http.StatusBadRequest, nil)
	ErrSupplyOverflow    = errorutil.NewDomainError("SUPPLY_OVERFLOW", "token supply overflow", http.StatusUnprocessableEntity, nil)
	ErrChallengeNotFound = errorutil.NewDomainError("CHALLENGE_NOT_FOUND", "login challenge missing or expired", http.StatusUnauthorized, nil)
	ErrInvalidSignature  = errorutil.NewDomainError("INVALID_SIGNATURE", "signature verification failed", http.StatusUnauthorized, nil)
)
