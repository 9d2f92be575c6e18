package dto

import (
	"time"

	"github.com/spec-kit/vesting-service/internal/domain"
	"github.com/spec-kit/vesting-service/internal/service"
)

// CreatePoolRequest payload for new pools.
type CreatePoolRequest struct {
	CompanyName string `json:"company_name"`
	Mint        string `json:"mint"`
}

// EnrollRequest payload for enrolling a beneficiary. Cliff and end accept
// either an absolute unix time or a delta in seconds from start.
type EnrollRequest struct {
	Beneficiary     string `json:"beneficiary"`
	StartTime       *int64 `json:"start_time"`
	CliffTime       *int64 `json:"cliff_time"`
	CliffDelta      *int64 `json:"cliff_delta"`
	EndTime         *int64 `json:"end_time"`
	EndDelta        *int64 `json:"end_delta"`
	TotalAllocation uint64 `json:"total_allocation"`
}

// ClaimRequest payload for claims; beneficiary defaults to the signer.
type ClaimRequest struct {
	Beneficiary string `json:"beneficiary"`
}

// PoolResponse describes a pool.
type PoolResponse struct {
	Address      string    `json:"address"`
	CompanyName  string    `json:"company_name"`
	Mint         string    `json:"mint"`
	Treasury     string    `json:"treasury"`
	Authority    string    `json:"authority"`
	TreasuryBump uint8     `json:"treasury_bump"`
	PoolBump     uint8     `json:"pool_bump"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecordResponse describes an employee record; Vested and Claimable are
// present when the record was evaluated at an instant.
type RecordResponse struct {
	Address         string  `json:"address"`
	Beneficiary     string  `json:"beneficiary"`
	Pool            string  `json:"pool"`
	StartTime       int64   `json:"start_time"`
	CliffTime       int64   `json:"cliff_time"`
	EndTime         int64   `json:"end_time"`
	TotalAllocation uint64  `json:"total_allocation"`
	TotalWithdrawn  uint64  `json:"total_withdrawn"`
	Bump            uint8   `json:"bump"`
	Vested          *uint64 `json:"vested,omitempty"`
	Claimable       *uint64 `json:"claimable,omitempty"`
	EvaluatedAt     *int64  `json:"evaluated_at,omitempty"`
}

// ClaimResponse describes a release.
type ClaimResponse struct {
	Amount         uint64 `json:"amount"`
	Destination    string `json:"destination"`
	TotalWithdrawn uint64 `json:"total_withdrawn"`
	ClaimedAt      int64  `json:"claimed_at"`
	Record         string `json:"record"`
}

// NewPoolResponse maps a pool.
func NewPoolResponse(p *domain.VestingPool) PoolResponse {
	return PoolResponse{
		Address:      p.Address.String(),
		CompanyName:  p.CompanyName,
		Mint:         p.Mint.String(),
		Treasury:     p.Treasury.String(),
		Authority:    p.Authority.String(),
		TreasuryBump: p.TreasuryBump,
		PoolBump:     p.PoolBump,
		CreatedAt:    p.CreatedAt,
	}
}

// NewPoolResponses maps a page of pools.
func NewPoolResponses(pools []domain.VestingPool) []PoolResponse {
	out := make([]PoolResponse, 0, len(pools))
	for i := range pools {
		out = append(out, NewPoolResponse(&pools[i]))
	}
	return out
}

// NewRecordResponse maps a bare record.
func NewRecordResponse(r *domain.EmployeeVestingRecord) RecordResponse {
	return RecordResponse{
		Address:         r.Address.String(),
		Beneficiary:     r.Beneficiary.String(),
		Pool:            r.Pool.String(),
		StartTime:       r.StartTime,
		CliffTime:       r.CliffTime,
		EndTime:         r.EndTime,
		TotalAllocation: r.TotalAllocation,
		TotalWithdrawn:  r.TotalWithdrawn,
		Bump:            r.Bump,
	}
}

// NewRecordViewResponse maps a record evaluated at an instant.
func NewRecordViewResponse(v *service.RecordView) RecordResponse {
	resp := NewRecordResponse(&v.Record)
	vested, claimable, at := v.Vested, v.Claimable, v.At
	resp.Vested, resp.Claimable, resp.EvaluatedAt = &vested, &claimable, &at
	return resp
}

// NewRecordViewResponses maps a page of evaluated records.
func NewRecordViewResponses(views []service.RecordView) []RecordResponse {
	out := make([]RecordResponse, 0, len(views))
	for i := range views {
		out = append(out, NewRecordViewResponse(&views[i]))
	}
	return out
}

// NewClaimResponse maps a claim result.
func NewClaimResponse(r *service.ClaimResult) ClaimResponse {
	return ClaimResponse{
		Amount:         r.Amount,
		Destination:    r.Destination.String(),
		TotalWithdrawn: r.Record.TotalWithdrawn,
		ClaimedAt:      r.ClaimedAt,
		Record:         r.Record.Address.String(),
	}
}
