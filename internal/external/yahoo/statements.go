package yahoo

import (
	"context"
	"fmt"
	"net/url"

	"github.com/growthroom/growthbrief/internal/contracts"
)

// rawValue is Yahoo's number wrapper; Raw is nil when the line is absent
type rawValue struct {
	Raw *float64 `json:"raw"`
}

type statementEntry struct {
	TotalRevenue        rawValue `json:"totalRevenue"`
	GrossProfit         rawValue `json:"grossProfit"`
	OperatingIncome     rawValue `json:"operatingIncome"`
	NetIncome           rawValue `json:"netIncome"`
	TotalCashFromOps    rawValue `json:"totalCashFromOperatingActivities"`
	CapitalExpenditures rawValue `json:"capitalExpenditures"`
	TotalAssets         rawValue `json:"totalAssets"`
}

type quoteSummaryResponse struct {
	QuoteSummary struct {
		Result []struct {
			IncomeStatementHistory struct {
				Statements []statementEntry `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			CashflowStatementHistory struct {
				Statements []statementEntry `json:"cashflowStatements"`
			} `json:"cashflowStatementHistory"`
			BalanceSheetHistory struct {
				Statements []statementEntry `json:"balanceSheetStatements"`
			} `json:"balanceSheetHistory"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchStatements fetches annual income, cashflow and balance sheet lines
// for a ticker, most recent period first
func (c *Client) FetchStatements(ctx context.Context, ticker string) (*contracts.Statements, error) {
	cacheKey := fmt.Sprintf("statements:%s", ticker)

	var cached contracts.Statements
	if hit, err := c.cache.Get(ctx, cacheKey, &cached); err != nil {
		c.logger.WithError(err).WithField("ticker", ticker).Warn("Statements cache read failed")
	} else if hit {
		return &cached, nil
	}

	params := url.Values{}
	params.Set("modules", "incomeStatementHistory,cashflowStatementHistory,balanceSheetHistory")

	fullURL := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?%s", c.chartBaseURL, url.PathEscape(ticker), params.Encode())

	var payload quoteSummaryResponse
	if err := c.httpClient.GetJSON(ctx, fullURL, &payload); err != nil {
		return nil, fmt.Errorf("yahoo: fetch statements for %s: %w", ticker, err)
	}

	stmts, err := parseStatements(ticker, &payload)
	if err != nil {
		return nil, err
	}

	// Undefined lines are NaN, which JSON cannot carry, so sparse
	// statements skip the cache
	if !hasUndefinedLines(stmts) {
		if err := c.cache.Set(ctx, cacheKey, stmts, c.cacheTTL); err != nil {
			c.logger.WithError(err).WithField("ticker", ticker).Warn("Statements cache write failed")
		}
	}

	return stmts, nil
}

func hasUndefinedLines(stmts *contracts.Statements) bool {
	for _, line := range [][]float64{
		stmts.Revenue, stmts.GrossProfit, stmts.OperatingIncome,
		stmts.NetIncome, stmts.CFO, stmts.CapEx, stmts.TotalAssets,
	} {
		for _, v := range line {
			if contracts.IsUndefined(v) {
				return true
			}
		}
	}
	return false
}

func parseStatements(ticker string, payload *quoteSummaryResponse) (*contracts.Statements, error) {
	if payload.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo: quote summary error for %s: %s", ticker, payload.QuoteSummary.Error.Description)
	}
	if len(payload.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: empty quote summary for %s", ticker)
	}

	result := payload.QuoteSummary.Result[0]
	stmts := &contracts.Statements{}

	for _, entry := range result.IncomeStatementHistory.Statements {
		stmts.Revenue = appendLine(stmts.Revenue, entry.TotalRevenue)
		stmts.GrossProfit = appendLine(stmts.GrossProfit, entry.GrossProfit)
		stmts.OperatingIncome = appendLine(stmts.OperatingIncome, entry.OperatingIncome)
		stmts.NetIncome = appendLine(stmts.NetIncome, entry.NetIncome)
	}
	for _, entry := range result.CashflowStatementHistory.Statements {
		stmts.CFO = appendLine(stmts.CFO, entry.TotalCashFromOps)
		stmts.CapEx = appendLine(stmts.CapEx, entry.CapitalExpenditures)
	}
	for _, entry := range result.BalanceSheetHistory.Statements {
		stmts.TotalAssets = appendLine(stmts.TotalAssets, entry.TotalAssets)
	}

	return stmts, nil
}

// appendLine keeps period alignment by recording undefined for absent
// values rather than skipping them
func appendLine(dst []float64, v rawValue) []float64 {
	if v.Raw == nil {
		return append(dst, contracts.Undefined())
	}
	return append(dst, *v.Raw)
}
