package events

import (
	"time"

	"github.com/spec-kit/vesting-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventMintCreated       EventType = "mint_created"
	EventTokensMinted      EventType = "tokens_minted"
	EventTokensTransferred EventType = "tokens_transferred"
	EventPoolCreated       EventType = "pool_created"
	EventEmployeeEnrolled  EventType = "employee_enrolled"
	EventTokensClaimed     EventType = "tokens_claimed"
)

// Event represents a domain event emitted after a committed state transition.
type Event struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Subject   domain.Address `json:"subject"`
	Actor     domain.Address `json:"actor"`
	Timestamp time.Time      `json:"timestamp"`
	Payload   interface{}    `json:"payload"`
}

// MintCreatedPayload payload.
type MintCreatedPayload struct {
	Decimals      uint8          `json:"decimals"`
	MintAuthority domain.Address `json:"mint_authority"`
}

// TokensMintedPayload payload.
type TokensMintedPayload struct {
	Destination domain.Address `json:"destination"`
	Amount      uint64         `json:"amount"`
}

// TokensTransferredPayload payload.
type TokensTransferredPayload struct {
	Mint   domain.Address `json:"mint"`
	From   domain.Address `json:"from"`
	To     domain.Address `json:"to"`
	Amount uint64         `json:"amount"`
}

// PoolCreatedPayload payload.
type PoolCreatedPayload struct {
	CompanyName string         `json:"company_name"`
	Mint        domain.Address `json:"mint"`
	Treasury    domain.Address `json:"treasury"`
}

// EmployeeEnrolledPayload payload.
type EmployeeEnrolledPayload struct {
	Pool            domain.Address `json:"pool"`
	Beneficiary     domain.Address `json:"beneficiary"`
	StartTime       int64          `json:"start_time"`
	CliffTime       int64          `json:"cliff_time"`
	EndTime         int64          `json:"end_time"`
	TotalAllocation uint64         `json:"total_allocation"`
}

// TokensClaimedPayload payload.
type TokensClaimedPayload struct {
	Pool           domain.Address `json:"pool"`
	Beneficiary    domain.Address `json:"beneficiary"`
	Destination    domain.Address `json:"destination"`
	Amount         uint64         `json:"amount"`
	TotalWithdrawn uint64         `json:"total_withdrawn"`
	ClaimedAt      int64          `json:"claimed_at"`
}
