package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"retail-sales-lab/internal/domain"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Retail Sales Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	if r.RunID != "" {
		sb.WriteString(fmt.Sprintf("Run: `%s`\n\n", r.RunID))
	}

	// Data Summary
	ds := r.DataSummary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Raw Rows | %d |\n", ds.RawRows))
	sb.WriteString(fmt.Sprintf("| Cleaned Rows | %d |\n", ds.CleanedRows))
	sb.WriteString(fmt.Sprintf("| Dropped: Missing Customer | %d |\n", ds.DroppedMissingCustomer))
	sb.WriteString(fmt.Sprintf("| Dropped: Quantity <= 0 | %d |\n", ds.DroppedNonPositiveQuantity))
	sb.WriteString(fmt.Sprintf("| Dropped: Unit Price <= 0 | %d |\n", ds.DroppedNonPositivePrice))
	sb.WriteString(fmt.Sprintf("| Customers | %d |\n", ds.Customers))
	sb.WriteString(fmt.Sprintf("| Products | %d |\n", ds.Products))
	sb.WriteString(fmt.Sprintf("| Countries | %d |\n", ds.Countries))
	sb.WriteString(fmt.Sprintf("| Invoices | %d |\n", ds.Invoices))
	sb.WriteString(fmt.Sprintf("| Total Revenue | %s |\n", money(ds.TotalRevenue)))
	if !ds.PeriodStart.IsZero() {
		sb.WriteString(fmt.Sprintf("| Period | %s to %s |\n",
			ds.PeriodStart.Format("2006-01-02"), ds.PeriodEnd.Format("2006-01-02")))
	}
	sb.WriteString("\n")

	// Revenue Trend
	sb.WriteString("## Monthly Revenue\n\n")
	if len(r.Revenue.Months) > 0 {
		sb.WriteString("| Month | Revenue | Growth % |\n")
		sb.WriteString("|-------|---------|----------|\n")
		for _, m := range r.Revenue.Months {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", m.Month, money(m.Revenue), growth(m.GrowthRatePercent)))
		}
		sb.WriteString("\n")
		if r.Revenue.Best != nil {
			sb.WriteString(fmt.Sprintf("Best month: **%s** (%s)\n\n", r.Revenue.Best.Month, money(r.Revenue.Best.Revenue)))
		}
		if r.Revenue.Worst != nil {
			sb.WriteString(fmt.Sprintf("Worst month: **%s** (%s)\n\n", r.Revenue.Worst.Month, money(r.Revenue.Worst.Revenue)))
		}
	} else {
		sb.WriteString("No monthly revenue available.\n\n")
	}

	// Customer Segmentation
	cs := r.Customers
	sb.WriteString("## Customer Segmentation\n\n")
	sb.WriteString(fmt.Sprintf("Thresholds: P25 = %s, P75 = %s\n\n", money(cs.Thresholds.P25), money(cs.Thresholds.P75)))
	sb.WriteString("| Segment | Customers | Total Revenue | Mean Revenue | Mean AOV |\n")
	sb.WriteString("|---------|-----------|---------------|--------------|----------|\n")
	for _, s := range cs.Segments {
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %s | %s |\n",
			s.Segment, s.CustomerCount, money(s.TotalRevenue), money(s.MeanRevenue), money(s.MeanAvgOrderValue)))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("High-Value customers generate %.1f%% of revenue.\n\n", cs.HighValueSharePct))

	// Product Performance
	ps := r.Products
	sb.WriteString("## Product Performance\n\n")
	sb.WriteString(fmt.Sprintf("Top %d of %d products generate %.1f%% of revenue.\n\n", ps.TopCount, ps.TotalProducts, ps.ParetoPct))
	sb.WriteString(fmt.Sprintf("### Top %d Products\n\n", TopProducts))
	writeProductTable(&sb, ps.Top)
	sb.WriteString(fmt.Sprintf("### Bottom %d Products\n\n", BottomProducts))
	writeProductTable(&sb, ps.Bottom)

	// Geography
	sb.WriteString("## Geographic Performance\n\n")
	if len(r.Countries.Top) > 0 {
		sb.WriteString(fmt.Sprintf("Top %d of %d countries.\n\n", len(r.Countries.Top), r.Countries.TotalCountries))
		sb.WriteString("| Country | Revenue | Customers | Orders |\n")
		sb.WriteString("|---------|---------|-----------|--------|\n")
		for _, c := range r.Countries.Top {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %d |\n", c.Country, money(c.TotalRevenue), c.CustomerCount, c.OrderCount))
		}
	} else {
		sb.WriteString("No geographic data available.\n")
	}
	sb.WriteString("\n")

	writeRecommendations(&sb, r.Recommendations)

	return sb.String()
}

func writeProductTable(sb *strings.Builder, products []domain.ProductMetric) {
	if len(products) == 0 {
		sb.WriteString("No products available.\n\n")
		return
	}
	sb.WriteString("| Stock Code | Description | Quantity | Revenue | Orders |\n")
	sb.WriteString("|------------|-------------|----------|---------|--------|\n")
	for _, p := range products {
		sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %d |\n",
			p.StockCode, escapeCell(p.Description), p.TotalQuantity, money(p.TotalRevenue), p.OrderCount))
	}
	sb.WriteString("\n")
}

func writeRecommendations(sb *strings.Builder, rec domain.Recommendations) {
	sb.WriteString("## Recommendations\n\n")

	ret := rec.Retention
	sb.WriteString("### 1. Customer Retention\n\n")
	sb.WriteString(fmt.Sprintf("- High-Value customers: %d\n", ret.HighValueCustomers))
	sb.WriteString(fmt.Sprintf("- Revenue at risk: %s\n", money(ret.RevenueAtRisk)))
	sb.WriteString(fmt.Sprintf("- A %.0f%% retention improvement could add %s\n\n", ret.UpliftRate*100, money(ret.ProjectedGain)))

	up := rec.Upsell
	sb.WriteString("### 2. Upselling\n\n")
	sb.WriteString(fmt.Sprintf("- Medium-Value customers: %d\n", up.MediumValueCustomers))
	sb.WriteString(fmt.Sprintf("- Current average order value: %s\n", money(up.CurrentAOV)))
	sb.WriteString(fmt.Sprintf("- Target: %.0f%% increase to %s\n", up.TargetAOVIncrease*100, money(up.TargetAOV)))
	sb.WriteString(fmt.Sprintf("- Potential revenue gain: %s (%.0f%% of %s)\n\n",
		money(up.ProjectedGain), up.RevenueGainRate*100, money(up.SegmentRevenue)))

	inv := rec.Inventory
	sb.WriteString("### 3. Inventory Optimization\n\n")
	sb.WriteString(fmt.Sprintf("- Bottom %.0f%% of products (%d) generate only %.1f%% of revenue (%s)\n",
		inv.LowPerformerFraction*100, inv.LowPerformerCount, inv.LowPerformerSharePct, money(inv.LowPerformerRevenue)))
	sb.WriteString(fmt.Sprintf("- Discontinue the bottom %.0f%% (%d products)", inv.DiscontinueFraction*100, len(inv.DiscontinueCodes)))
	if len(inv.DiscontinueCodes) > 0 {
		sb.WriteString(": " + strings.Join(inv.DiscontinueCodes, ", "))
	}
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("- Expected inventory turnover improvement: %.0f%%\n\n", inv.ExpectedTurnoverGainPct))

	ov := rec.Overall
	sb.WriteString("### 4. Overall Impact\n\n")
	sb.WriteString(fmt.Sprintf("- Current revenue: %s\n", money(ov.CurrentRevenue)))
	sb.WriteString(fmt.Sprintf("- Projected increase at %.0f%%: %s\n", ov.ImprovementRate*100, money(ov.ProjectedIncrease)))
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func growth(g *float64) string {
	if g == nil {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f", *g)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
