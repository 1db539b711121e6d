package routes

import (
	"strconv"
	"time"

	"github.com/guttosm/stockinfo/internal/domain/models"
)

// TickerParam is the path parameter shared by every route.
const TickerParam = "ticker"

// Tags group routes in the generated documentation.
const (
	TagCompany = "company"
	TagFinance = "finance"
	TagPrice   = "price"
)

const (
	priceLookahead   = 3 // days added to "now" for the default endHistoryDate
	defaultCountBack = "30"
)

const (
	tcAnalysis = "/tcanalysis/v1"
	hfcData    = "/tcbs-hfc-data/v1"
	insight    = "/stock-insight/v2"
)

func constant(v string) func(time.Time) string {
	return func(time.Time) string { return v }
}

var (
	yearlyParam = models.Param{
		Name:        "yearly",
		Type:        models.TypeInteger,
		Description: "1 for yearly reports, 0 for quarterly reports",
		Enum:        []string{"0", "1"},
		DefaultDoc:  "0",
		Default:     constant("0"),
	}
	isAllParam = models.Param{
		Name:        "isAll",
		Type:        models.TypeBoolean,
		Description: "true returns the full history, false only the most recent periods",
		DefaultDoc:  "false",
		Default:     constant("false"),
	}
	endHistoryDateParam = models.Param{
		Name:        "endHistoryDate",
		Type:        models.TypeInteger,
		Description: "End of the window as a Unix timestamp (seconds). Defaults to now + 3 days.",
		DefaultDoc:  "now + 3 days",
		Default: func(now time.Time) string {
			return strconv.FormatInt(now.AddDate(0, 0, priceLookahead).Unix(), 10)
		},
	}
	countBackParam = models.Param{
		Name:        "countBack",
		Type:        models.TypeInteger,
		Description: "Number of daily bars to return, at most 365",
		Maximum:     365,
		DefaultDoc:  defaultCountBack,
		Default:     constant(defaultCountBack),
	}
)

func statement(name, summary, description string) models.Route {
	return models.Route{
		Name:        name,
		Path:        "/ticker/:ticker/" + name,
		Upstream:    tcAnalysis + "/finance/{ticker}/" + name + "?yearly={yearly}&isAll={isAll}",
		Params:      []models.Param{yearlyParam, isAllParam},
		Summary:     summary,
		Description: description,
		Tag:         TagFinance,
		Response:    models.TypeArray,
	}
}

var table = []models.Route{
	{
		Name:        "overview",
		Path:        "/ticker/:ticker/overview",
		Upstream:    tcAnalysis + "/ticker/{ticker}/overview",
		Summary:     "Company overview",
		Description: "Exchange, industry, shareholder count, foreign ownership and related indicators of the ticker.",
		Tag:         TagCompany,
		Response:    models.TypeObject,
	},
	{
		Name:        "stockratio",
		Path:        "/ticker/:ticker/stockratio",
		Upstream:    tcAnalysis + "/ticker/{ticker}/stockratio",
		Summary:     "Stock ratios",
		Description: "Valuation and profitability ratios of the ticker.",
		Tag:         TagCompany,
		Response:    models.TypeObject,
	},
	{
		Name:        "stock-same-ind",
		Path:        "/ticker/:ticker/stock-same-ind",
		Upstream:    tcAnalysis + "/ticker/{ticker}/stock-same-ind",
		Summary:     "Stocks in the same industry",
		Description: "Peers of the ticker within its industry, with their key metrics.",
		Tag:         TagCompany,
		Response:    models.TypeObject,
	},
	{
		Name:        "indicator",
		Path:        "/ticker/:ticker/indicator",
		Upstream:    tcAnalysis + "/data-charts/indicator?ticker={ticker}",
		Summary:     "Technical indicators",
		Description: "Technical indicators of the ticker.",
		Tag:         TagPrice,
		Response:    models.TypeObject,
	},
	{
		Name:        "fundamental-analysis",
		Path:        "/ticker/:ticker/fundamental-analysis",
		Upstream:    hfcData + "/ani/fundamental-analysis?ticker={ticker}",
		Summary:     "Fundamental and technical analysis",
		Description: "Analyst scoring of the ticker's fundamentals.",
		Tag:         TagCompany,
		Response:    models.TypeObject,
	},
	{
		Name:        "dividend-payment-histories",
		Path:        "/ticker/:ticker/dividend-payment-histories",
		Upstream:    tcAnalysis + "/company/{ticker}/dividend-payment-histories?page=0&size=500",
		Summary:     "Dividend payment history",
		Description: "Up to 500 past dividend payments of the ticker.",
		Tag:         TagCompany,
		Response:    models.TypeObject,
	},
	statement("incomestatement", "Income statement",
		"Revenue, gross profit, operating expenses and net income per period."),
	statement("balancesheet", "Balance sheet",
		"Assets, liabilities and equity per period."),
	statement("cashflow", "Cash flow statement",
		"Operating, investing and financing cash flows per period."),
	statement("financialratio", "Financial ratios",
		"Financial ratios of the ticker per period."),
	{
		Name: "price",
		Path: "/ticker/:ticker/price",
		Upstream: insight + "/stock/bars-long-term?ticker={ticker}&type=stock&resolution=D" +
			"&to={endHistoryDate}&countBack={countBack}",
		Params:      []models.Param{endHistoryDateParam, countBackParam},
		Summary:     "Daily price history",
		Description: "Daily open, high, low, close and volume bars ending at endHistoryDate.",
		Tag:         TagPrice,
		Response:    models.TypeObject,
	},
}

// Table returns every proxied route in registration order.
// The returned slice is a copy; callers may not mutate the shared table.
func Table() []models.Route {
	out := make([]models.Route, len(table))
	copy(out, table)
	return out
}

// ByName looks a route up by its Name.
func ByName(name string) (models.Route, bool) {
	for _, r := range table {
		if r.Name == name {
			return r, true
		}
	}
	return models.Route{}, false
}
