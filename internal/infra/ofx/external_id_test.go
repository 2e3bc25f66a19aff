package ofx

import (
	"testing"

	"github.com/boddenberg/finance-tracker/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestExternalID_HashesLinesWithoutFITID(t *testing.T) {
	date := domain.MustParseDate("2024-05-07")
	amount := decimal.RequireFromString("99")

	id := externalID("4111000011112222", "", date, amount, "MUSIC SUBSCRIPTION")

	assert.Regexp(t, `^ofx:[0-9a-f]{64}$`, id)
	assert.Equal(t, id, externalID("4111000011112222", "", date, decimal.RequireFromString("99.00"), "MUSIC SUBSCRIPTION"))
	assert.NotEqual(t, id, externalID("5010001234", "", date, amount, "MUSIC SUBSCRIPTION"))
	assert.NotEqual(t, id, externalID("4111000011112222", "", date.AddDays(1), amount, "MUSIC SUBSCRIPTION"))
}
