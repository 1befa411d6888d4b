package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retail-sales-lab/internal/domain"
)

func TestAnalyzeGeography(t *testing.T) {
	txs := []domain.CleanedTransaction{
		mkTx("C1", "I1", "100", withCountry("United Kingdom")),
		mkTx("C1", "I1", "50", withCountry("United Kingdom")),
		mkTx("C2", "I2", "25", withCountry("United Kingdom")),
		mkTx("C3", "I3", "300", withCountry("Netherlands")),
		mkTx("C4", "I4", "60", withCountry("France")),
		mkTx("C5", "I5", "60", withCountry("EIRE")),
	}

	countries := AnalyzeGeography(txs)
	require.Len(t, countries, 4)

	assert.Equal(t, "Netherlands", countries[0].Country)
	assert.Equal(t, "United Kingdom", countries[1].Country)
	assert.Equal(t, "EIRE", countries[2].Country)
	assert.Equal(t, "France", countries[3].Country)

	uk := countries[1]
	assertDecEqual(t, "175", uk.TotalRevenue)
	assert.Equal(t, 2, uk.CustomerCount)
	assert.Equal(t, 2, uk.OrderCount)

	total := dec("0")
	for _, c := range countries {
		total = total.Add(c.TotalRevenue)
	}
	assert.True(t, total.Equal(domain.TotalRevenue(txs)))
}

func TestAnalyzeGeography_Empty(t *testing.T) {
	assert.Empty(t, AnalyzeGeography(nil))
}
