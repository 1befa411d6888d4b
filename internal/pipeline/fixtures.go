package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/domain"
	"retail-sales-lab/internal/storage"
)

type fixtureProduct struct {
	code        string
	description string
	price       string
}

type fixtureCustomer struct {
	id      string
	country string
	orders  int // invoices per month
	lines   int // line items per invoice
}

var fixtureProducts = []fixtureProduct{
	{"85123A", "WHITE HANGING HEART T-LIGHT HOLDER", "2.55"},
	{"71053", "WHITE METAL LANTERN", "3.39"},
	{"84406B", "CREAM CUPID HEARTS COAT HANGER", "2.75"},
	{"84029G", "KNITTED UNION FLAG HOT WATER BOTTLE", "3.39"},
	{"22423", "REGENCY CAKESTAND 3 TIER", "12.75"},
	{"47566", "PARTY BUNTING", "4.95"},
	{"22633", "HAND WARMER UNION JACK", "1.85"},
	{"21730", "GLASS STAR FROSTED T-LIGHT HOLDER", "4.25"},
	{"22752", "SET 7 BABUSHKA NESTING BOXES", "7.65"},
	{"84879", "ASSORTED COLOUR BIRD ORNAMENT", "1.69"},
	{"22960", "JAM MAKING SET WITH JARS", "4.25"},
	{"23084", "RABBIT NIGHT LIGHT", "2.08"},
}

var fixtureCustomers = []fixtureCustomer{
	{"17850", "United Kingdom", 3, 4},
	{"13047", "United Kingdom", 2, 3},
	{"12583", "France", 2, 5},
	{"13748", "United Kingdom", 1, 2},
	{"15100", "United Kingdom", 1, 1},
	{"12662", "Germany", 1, 3},
	{"12431", "Australia", 1, 2},
	{"14688", "United Kingdom", 2, 2},
}

// FixtureTransactions returns a deterministic demo dataset spanning
// December 2010 to May 2011. It includes rows the cleaner drops:
// a cancellation, a line without a customer and a zero-price adjustment.
func FixtureTransactions() []domain.TransactionRecord {
	var records []domain.TransactionRecord
	invoice := 536365
	start := time.Date(2010, time.December, 1, 8, 26, 0, 0, time.UTC)

	for month := 0; month < 6; month++ {
		for ci, c := range fixtureCustomers {
			customer := c.id
			for o := 0; o < c.orders; o++ {
				day := 1 + (ci*3+o*7)%27
				date := time.Date(start.Year(), start.Month()+time.Month(month), day, 8+ci%9, 26+o, 0, 0, time.UTC)
				for l := 0; l < c.lines; l++ {
					p := fixtureProducts[(ci*5+o*3+l*7+month)%len(fixtureProducts)]
					records = append(records, domain.TransactionRecord{
						InvoiceNo:   fmt.Sprintf("%d", invoice),
						StockCode:   p.code,
						Description: p.description,
						Quantity:    1 + (ci+l+month)%6*2,
						InvoiceDate: date,
						UnitPrice:   decimal.RequireFromString(p.price),
						CustomerID:  &customer,
						Country:     c.country,
					})
				}
				invoice++
			}
		}
	}

	cancelled := "17850"
	records = append(records,
		domain.TransactionRecord{
			InvoiceNo:   "C536379",
			StockCode:   "D",
			Description: "Discount",
			Quantity:    -1,
			InvoiceDate: time.Date(2010, time.December, 1, 9, 41, 0, 0, time.UTC),
			UnitPrice:   decimal.RequireFromString("27.50"),
			CustomerID:  &cancelled,
			Country:     "United Kingdom",
		},
		domain.TransactionRecord{
			InvoiceNo:   "536414",
			StockCode:   "22139",
			Description: "",
			Quantity:    56,
			InvoiceDate: time.Date(2010, time.December, 1, 11, 52, 0, 0, time.UTC),
			UnitPrice:   decimal.RequireFromString("3.75"),
			Country:     "United Kingdom",
		},
		domain.TransactionRecord{
			InvoiceNo:   "536981",
			StockCode:   "M",
			Description: "Manual",
			Quantity:    1,
			InvoiceDate: time.Date(2010, time.December, 3, 14, 26, 0, 0, time.UTC),
			UnitPrice:   decimal.Zero,
			CustomerID:  &cancelled,
			Country:     "United Kingdom",
		},
	)
	return records
}

// LoadFixtures populates store with FixtureTransactions.
func LoadFixtures(ctx context.Context, store storage.TransactionStore) error {
	return store.InsertBulk(ctx, FixtureTransactions())
}
