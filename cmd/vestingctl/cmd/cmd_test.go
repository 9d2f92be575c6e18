package cmd

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/vesting-service/internal/config"
	"github.com/spec-kit/vesting-service/internal/domain"
	"github.com/spec-kit/vesting-service/internal/pda"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestUIAmount(t *testing.T) {
	assert.Equal(t, "0.000000100", uiAmount(100, 9))
	assert.Equal(t, "10000.000000000", uiAmount(10000*1_000_000_000, 9))
	assert.Equal(t, "42", uiAmount(42, 0))
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "50.00", percent(50, 100))
	assert.Equal(t, "33.33", percent(1, 3))
	assert.Equal(t, "100.00", percent(7, 7))
}

func TestAddressPoolMatchesDeriver(t *testing.T) {
	d := pda.NewDeriver(domain.MustParseAddress(config.DefaultProgramID))
	pool, bump, err := d.Pool("companyName")
	require.NoError(t, err)

	out := run(t, "address", "pool", "companyName")
	assert.Equal(t, fmt.Sprintf("%s (bump %d)\n", pool, bump), out)
}

func TestScheduleTable(t *testing.T) {
	out := run(t, "schedule", "--start", "0", "--cliff", "100", "--end", "100", "--total", "100", "--decimals", "0", "--steps", "2")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[1], "0.00%")
	assert.Contains(t, lines[3], "100.00%")
}
