package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leapstack-labs/sqlprobe/pkg/ast"
	"github.com/leapstack-labs/sqlprobe/pkg/core"
)

func TestCanonical(t *testing.T) {
	assert.Equal(t, "ROW_NUMBER", Canonical(" row_number "))
	assert.Equal(t, "CURRENT_DATE", Canonical("curdate"))
	assert.Equal(t, "CURRENT_TIMESTAMP", Canonical("localtimestamp"))
	assert.Equal(t, "UPPER", Canonical("Upper"))
}

func TestFlavorOf(t *testing.T) {
	tests := []struct {
		name string
		want ast.Flavor
	}{
		{"COUNT", ast.FlavorAggregate},
		{"STRING_AGG", ast.FlavorAggregate},
		{"ROW_NUMBER", ast.FlavorWindow},
		{"LAG", ast.FlavorWindow},
		{"CUME_DIST", ast.FlavorWindow},
		{"RANDOM", ast.FlavorVolatile},
		{"NOW", ast.FlavorVolatile},
		{"COALESCE", ast.FlavorPlain},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FlavorOf(tt.name), tt.name)
	}
}

func TestWindowClassOf(t *testing.T) {
	for _, name := range []string{"ROW_NUMBER", "RANK", "DENSE_RANK", "NTILE"} {
		assert.Equal(t, Ranking, WindowClassOf(name), name)
	}
	for _, name := range []string{"LAG", "LEAD", "FIRST_VALUE", "LAST_VALUE", "NTH_VALUE"} {
		assert.Equal(t, Navigation, WindowClassOf(name), name)
	}
	assert.Equal(t, NotOrdered, WindowClassOf("PERCENT_RANK"))
	assert.Equal(t, NotOrdered, WindowClassOf("SUM"))
}

func TestVolatility(t *testing.T) {
	tests := []struct {
		name string
		tier Volatility
		sev  core.Severity
	}{
		{"RAND", VolatileRandom, core.SeverityError},
		{"RANDOM", VolatileRandom, core.SeverityError},
		{"UUID", VolatileIdentity, core.SeverityWarning},
		{"GEN_RANDOM_UUID", VolatileIdentity, core.SeverityWarning},
		{"NEWID", VolatileIdentity, core.SeverityWarning},
		{"NOW", VolatileClock, core.SeverityInfo},
		{"CURRENT_DATE", VolatileClock, core.SeverityInfo},
		{"SYSDATE", VolatileClock, core.SeverityInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.tier, VolatilityOf(tt.name), tt.name)
		assert.Equal(t, tt.sev, VolatilityOf(tt.name).Severity(), tt.name)
	}
	assert.Equal(t, NotVolatile, VolatilityOf("UPPER"))
}
