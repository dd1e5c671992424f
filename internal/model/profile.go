package model

// FundProfile is public profile data for one candidate fund, used by the
// weekly selector. Optional growth figures are nil when the provider omits
// them.
type FundProfile struct {
	Code        string
	Name        string
	DayGrowth   *float64 // percent
	WeekGrowth  *float64
	Month1      *float64
	Month3      *float64
	Month6      *float64
	Year1       *float64
	NetWorth    float64
	FundScale   string // raw provider string, e.g. "10.23亿"
	Manager     string
}
