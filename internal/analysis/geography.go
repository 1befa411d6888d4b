package analysis

import (
	"sort"

	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/domain"
)

type countryAcc struct {
	revenue   decimal.Decimal
	customers map[string]struct{}
	invoices  map[string]struct{}
}

// AnalyzeGeography aggregates revenue, distinct customers and distinct
// invoices per country, ordered by revenue descending then country name.
func AnalyzeGeography(txs []domain.CleanedTransaction) []domain.CountryMetric {
	accs := make(map[string]*countryAcc)
	for i := range txs {
		tx := &txs[i]
		acc, ok := accs[tx.Country]
		if !ok {
			acc = &countryAcc{
				customers: make(map[string]struct{}),
				invoices:  make(map[string]struct{}),
			}
			accs[tx.Country] = acc
		}
		acc.revenue = acc.revenue.Add(tx.TotalPrice)
		acc.customers[tx.CustomerID] = struct{}{}
		acc.invoices[tx.InvoiceNo] = struct{}{}
	}

	countries := make([]domain.CountryMetric, 0, len(accs))
	for name, acc := range accs {
		countries = append(countries, domain.CountryMetric{
			Country:       name,
			TotalRevenue:  acc.revenue,
			CustomerCount: len(acc.customers),
			OrderCount:    len(acc.invoices),
		})
	}
	sort.Slice(countries, func(i, j int) bool {
		if c := countries[i].TotalRevenue.Cmp(countries[j].TotalRevenue); c != 0 {
			return c > 0
		}
		return countries[i].Country < countries[j].Country
	})
	return countries
}
