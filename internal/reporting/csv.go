package reporting

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"retail-sales-lab/internal/analysis"
	"retail-sales-lab/internal/domain"
)

// Export file names.
const (
	CustomerCSVFile = "customer_segmentation.csv"
	ProductCSVFile  = "product_performance.csv"
	CountryCSVFile  = "geographic_performance.csv"
	MonthlyCSVFile  = "monthly_revenue.csv"
)

// WriteCustomerCSV writes the customer segmentation table.
func WriteCustomerCSV(w io.Writer, customers []domain.CustomerMetric) error {
	rows := make([][]string, 0, len(customers)+1)
	rows = append(rows, []string{"CustomerID", "OrderCount", "TotalRevenue", "TotalItems", "AvgOrderValue", "Segment"})
	for _, c := range customers {
		rows = append(rows, []string{
			c.CustomerID,
			strconv.Itoa(c.OrderCount),
			money(c.TotalRevenue),
			strconv.Itoa(c.TotalItems),
			money(c.AvgOrderValue),
			string(c.Segment),
		})
	}
	return writeAll(w, rows)
}

// WriteProductCSV writes the full product ranking.
func WriteProductCSV(w io.Writer, products []domain.ProductMetric) error {
	rows := make([][]string, 0, len(products)+1)
	rows = append(rows, []string{"StockCode", "Description", "TotalQuantity", "TotalRevenue", "OrderCount"})
	for _, p := range products {
		rows = append(rows, []string{
			p.StockCode,
			p.Description,
			strconv.Itoa(p.TotalQuantity),
			money(p.TotalRevenue),
			strconv.Itoa(p.OrderCount),
		})
	}
	return writeAll(w, rows)
}

// WriteCountryCSV writes the full country ranking.
func WriteCountryCSV(w io.Writer, countries []domain.CountryMetric) error {
	rows := make([][]string, 0, len(countries)+1)
	rows = append(rows, []string{"Country", "TotalRevenue", "CustomerCount", "OrderCount"})
	for _, c := range countries {
		rows = append(rows, []string{
			c.Country,
			money(c.TotalRevenue),
			strconv.Itoa(c.CustomerCount),
			strconv.Itoa(c.OrderCount),
		})
	}
	return writeAll(w, rows)
}

// WriteMonthlyCSV writes the revenue series. Growth_Rate is empty for the first month.
func WriteMonthlyCSV(w io.Writer, months []domain.MonthlyRevenue) error {
	rows := make([][]string, 0, len(months)+1)
	rows = append(rows, []string{"Month", "Revenue", "Growth_Rate"})
	for _, m := range months {
		g := ""
		if m.GrowthRatePercent != nil {
			g = strconv.FormatFloat(*m.GrowthRatePercent, 'f', 4, 64)
		}
		rows = append(rows, []string{m.Month.String(), money(m.Revenue), g})
	}
	return writeAll(w, rows)
}

func writeAll(w io.Writer, rows [][]string) error {
	cw := csv.NewWriter(w)
	return cw.WriteAll(rows)
}

// Tables holds the four export tables of one run.
type Tables struct {
	Monthly   []domain.MonthlyRevenue
	Customers []domain.CustomerMetric
	Products  []domain.ProductMetric
	Countries []domain.CountryMetric
}

// TablesFrom extracts the export tables from analysis results.
func TablesFrom(res *analysis.Results) Tables {
	t := Tables{Monthly: res.Revenue.Months, Countries: res.Countries}
	if res.Customers != nil {
		t.Customers = res.Customers.Customers
	}
	if res.Products != nil {
		t.Products = res.Products.Products
	}
	return t
}

// WriteCSVFiles writes the four CSV exports into dir and returns their paths.
func WriteCSVFiles(dir string, t Tables) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	files := []struct {
		name  string
		write func(io.Writer) error
	}{
		{MonthlyCSVFile, func(w io.Writer) error { return WriteMonthlyCSV(w, t.Monthly) }},
		{CustomerCSVFile, func(w io.Writer) error { return WriteCustomerCSV(w, t.Customers) }},
		{ProductCSVFile, func(w io.Writer) error { return WriteProductCSV(w, t.Products) }},
		{CountryCSVFile, func(w io.Writer) error { return WriteCountryCSV(w, t.Countries) }},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		var buf bytes.Buffer
		if err := f.write(&buf); err != nil {
			return paths, fmt.Errorf("render %s: %w", f.name, err)
		}
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
			return paths, fmt.Errorf("write %s: %w", f.name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
