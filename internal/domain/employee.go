package domain

import "time"

// EmployeeVestingRecord holds one beneficiary's schedule within a pool.
type EmployeeVestingRecord struct {
	Address         Address
	Beneficiary     Address
	Pool            Address
	StartTime       int64
	CliffTime       int64
	EndTime         int64
	TotalAllocation uint64
	TotalWithdrawn  uint64
	Bump            uint8
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Remaining is the part of the allocation not yet withdrawn.
func (r *EmployeeVestingRecord) Remaining() uint64 {
	if r.TotalWithdrawn >= r.TotalAllocation {
		return 0
	}
	return r.TotalAllocation - r.TotalWithdrawn
}

// FullyClaimed reports whether nothing is left to release under this record.
func (r *EmployeeVestingRecord) FullyClaimed() bool {
	return r.TotalWithdrawn >= r.TotalAllocation
}
