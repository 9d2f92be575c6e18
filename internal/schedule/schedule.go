// Package schedule computes how much of an allocation has vested at an instant.
package schedule

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/spec-kit/vesting-service/internal/domain"
)

// Window is a vesting schedule in unix seconds.
type Window struct {
	Start int64
	Cliff int64
	End   int64
}

// Validate checks start <= cliff <= end with a non-empty window and a positive allocation.
// cliff == start (no cliff) and cliff == end (single release) are both allowed.
func Validate(w Window, totalAllocation uint64) error {
	if totalAllocation == 0 {
		return fmt.Errorf("%w: total allocation must be positive", domain.ErrInvalidSchedule)
	}
	if w.Cliff < w.Start {
		return fmt.Errorf("%w: cliff before start", domain.ErrInvalidSchedule)
	}
	if w.End < w.Cliff {
		return fmt.Errorf("%w: end before cliff", domain.ErrInvalidSchedule)
	}
	if w.End == w.Start {
		return fmt.Errorf("%w: empty vesting window", domain.ErrInvalidSchedule)
	}
	return nil
}

// VestedAmount returns the cumulative amount releasable at now.
//
// Release is zero before the cliff and the full allocation from end onwards.
// In between the amount ramps linearly over [start, end]; the cliff only delays
// the first release. The product is taken in 256 bits and truncated toward zero.
func VestedAmount(now int64, w Window, totalAllocation uint64) (uint64, error) {
	switch {
	case now < w.Cliff:
		return 0, nil
	case now >= w.End:
		return totalAllocation, nil
	}
	if now < w.Start || w.End <= w.Start {
		return 0, fmt.Errorf("%w: instant outside vesting window", domain.ErrArithmeticOverflow)
	}

	elapsed := uint256.NewInt(span(w.Start, now))
	duration := uint256.NewInt(span(w.Start, w.End))
	vested, overflow := new(uint256.Int).MulDivOverflow(uint256.NewInt(totalAllocation), elapsed, duration)
	if overflow || !vested.IsUint64() {
		return 0, domain.ErrArithmeticOverflow
	}
	return vested.Uint64(), nil
}

// Claimable is the vested amount not yet withdrawn.
func Claimable(vested, withdrawn uint64) uint64 {
	if vested <= withdrawn {
		return 0
	}
	return vested - withdrawn
}

// ForRecord evaluates a stored record at now.
func ForRecord(now int64, r *domain.EmployeeVestingRecord) (vested, claimable uint64, err error) {
	vested, err = VestedAmount(now, WindowOf(r), r.TotalAllocation)
	if err != nil {
		return 0, 0, err
	}
	return vested, Claimable(vested, r.TotalWithdrawn), nil
}

// WindowOf extracts the schedule of a record.
func WindowOf(r *domain.EmployeeVestingRecord) Window {
	return Window{Start: r.StartTime, Cliff: r.CliffTime, End: r.EndTime}
}

// span is b-a for a <= b, exact over the whole int64 range.
func span(a, b int64) uint64 {
	return uint64(b) - uint64(a)
}
