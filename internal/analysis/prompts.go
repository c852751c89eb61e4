package analysis

import (
	"fmt"
	"strings"

	"github.com/nandriyanto/PortfolioTracker/internal/portfolio/models"
)

func signed(v float64) string {
	if v >= 0 {
		return fmt.Sprintf("+$%.2f", v)
	}
	return fmt.Sprintf("-$%.2f", -v)
}

// GeneratePortfolioAnalysisPrompt renders the full-portfolio prompt the
// user copies into an external chat assistant. Positions without a live
// price are listed with their cost basis and flagged in the overview.
func GeneratePortfolioAnalysisPrompt(positions []models.CurrentPosition) string {
	lines := make([]string, 0, len(positions))
	var totalValue, totalCost float64
	priced := 0

	for _, pos := range positions {
		costBasis := pos.TotalCostBasis
		totalCost += costBasis
		if pos.CurrentPrice > 0 {
			priced++
			currentValue := pos.CurrentPrice * pos.CurrentQuantity
			totalValue += currentValue
			pnl := currentValue - costBasis
			var pnlPercent float64
			if costBasis > 0 {
				pnlPercent = pnl / costBasis * 100
			}
			lines = append(lines, fmt.Sprintf(
				"%s (%s): %g shares at avg cost $%.2f, current price: $%.2f, current value: $%.2f, P&L: %s (%.2f%%)",
				pos.Symbol, pos.AssetKind, pos.CurrentQuantity, pos.AverageCost,
				pos.CurrentPrice, currentValue, signed(pnl), pnlPercent))
		} else {
			lines = append(lines, fmt.Sprintf(
				"%s (%s): %g shares at avg cost $%.2f, current price: [Price data unavailable], cost basis: $%.2f",
				pos.Symbol, pos.AssetKind, pos.CurrentQuantity, pos.AverageCost, costBasis))
		}
	}

	totalPnL := totalValue - totalCost
	var totalPnLPercent float64
	if totalCost > 0 {
		totalPnLPercent = totalPnL / totalCost * 100
	}

	var missingNote string
	if priced < len(positions) {
		missingNote = fmt.Sprintf("\nNote: %d position(s) missing current price data - actual values may be higher.\n", len(positions)-priced)
	}

	return fmt.Sprintf(`Please analyze my investment portfolio:

PORTFOLIO OVERVIEW:
Total Portfolio Value: $%.2f (%d/%d positions have current pricing)
Total Cost Basis: $%.2f
Total P&L: %s (%.2f%%)
%s
INDIVIDUAL POSITIONS:
%s

Please provide:
1. **Risk Assessment**: Overall portfolio risk level (Conservative/Moderate/Aggressive)
2. **Diversification Analysis**: How well-diversified is this portfolio across sectors/asset types?
3. **Performance Review**: Analysis of current gains/losses and what they indicate
4. **Recommendations**:
   - Any positions to consider selling (and why)
   - Potential new investments to improve diversification
   - Risk management suggestions
5. **Market Outlook**: Brief thoughts on current market conditions affecting these holdings

Please be specific and actionable in your recommendations.`,
		totalValue, priced, len(positions), totalCost, signed(totalPnL), totalPnLPercent,
		missingNote, strings.Join(lines, "\n"))
}

// GenerateAggregatedPortfolioAnalysisPrompt renders the prompt over the
// per-symbol aggregated view, including purchase history figures.
func GenerateAggregatedPortfolioAnalysisPrompt(positions []models.AggregatedPosition) string {
	lines := make([]string, 0, len(positions))
	var totalValue, totalCost float64

	for _, pos := range positions {
		totalCost += pos.TotalCost
		line := fmt.Sprintf(
			"%s (%s): %g shares, average price $%.2f, total cost $%.2f, %d purchase(s) between %s and %s",
			pos.Symbol, pos.AssetKind, pos.TotalQuantity, pos.AveragePrice, pos.TotalCost,
			pos.PurchaseCount, pos.FirstPurchaseDate.Format("2006-01-02"),
			pos.LastPurchaseDate.Format("2006-01-02"))
		if pos.CurrentPrice > 0 {
			currentValue := pos.CurrentPrice * pos.TotalQuantity
			totalValue += currentValue
			line += fmt.Sprintf(", current price $%.2f (%s), current value $%.2f",
				pos.CurrentPrice, pos.Currency, currentValue)
		} else {
			line += ", current price unavailable"
		}
		lines = append(lines, line)
	}

	totalPnL := totalValue - totalCost
	var totalPnLPercent float64
	if totalCost > 0 {
		totalPnLPercent = totalPnL / totalCost * 100
	}

	return fmt.Sprintf(`Please analyze my investment portfolio (aggregated by symbol):

PORTFOLIO OVERVIEW:
Total Portfolio Value: $%.2f
Total Cost Basis: $%.2f
Total P&L: %s (%.2f%%)

AGGREGATED POSITIONS:
%s

Please provide:
1. **Risk Assessment**: Overall portfolio risk level (Conservative/Moderate/Aggressive)
2. **Diversification Analysis**: How well-diversified is this portfolio across sectors/asset types?
3. **Performance Review**: Analysis of current gains/losses and what they indicate
4. **Recommendations**:
   - Any positions to consider selling (and why)
   - Potential new investments to improve diversification
   - Risk management suggestions
5. **Market Outlook**: Brief thoughts on current market conditions affecting these holdings

Please be specific and actionable in your recommendations.`,
		totalValue, totalCost, signed(totalPnL), totalPnLPercent, strings.Join(lines, "\n"))
}

func GenerateStockAnalysisPrompt(symbol string, currentPrice float64) string {
	return fmt.Sprintf(`Please provide a comprehensive analysis of %s at the current price of $%.2f:

1. **Company Overview**: Brief description of business model and recent performance
2. **Technical Analysis**: Current price trends, support/resistance levels
3. **Fundamental Analysis**: Key financial metrics and valuation
4. **Risk Factors**: Main risks to consider
5. **Recommendation**: Buy/Hold/Sell with target price and reasoning

Please keep the analysis concise but informative for investment decision-making.`,
		strings.ToUpper(symbol), currentPrice)
}
