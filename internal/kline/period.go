package kline

// Period is the closed set of candle periods the engine understands.
type Period uint8

const (
	Period1m Period = iota + 1
	Period3m
	Period5m
	Period15m
	Period30m
	Period60m
	Period120m
	Period1d
	Period1w
	Period1Month
)

// ParsePeriod maps a period label to its enum value. "1mth" is accepted
// as a legacy alias of "1month".
func ParsePeriod(s string) (Period, error) {
	switch s {
	case "1m":
		return Period1m, nil
	case "3m":
		return Period3m, nil
	case "5m":
		return Period5m, nil
	case "15m":
		return Period15m, nil
	case "30m":
		return Period30m, nil
	case "60m":
		return Period60m, nil
	case "120m":
		return Period120m, nil
	case "1d":
		return Period1d, nil
	case "1w":
		return Period1w, nil
	case "1mth", "1month":
		return Period1Month, nil
	}
	return 0, &UnsupportedPeriodError{Period: s, Scope: "ParsePeriod"}
}

func (p Period) String() string {
	switch p {
	case Period1m:
		return "1m"
	case Period3m:
		return "3m"
	case Period5m:
		return "5m"
	case Period15m:
		return "15m"
	case Period30m:
		return "30m"
	case Period60m:
		return "60m"
	case Period120m:
		return "120m"
	case Period1d:
		return "1d"
	case Period1w:
		return "1w"
	case Period1Month:
		return "1month"
	}
	return "unknown"
}

// Minutes returns the nominal length of one candle in minutes.
func (p Period) Minutes() uint16 {
	switch p {
	case Period1m:
		return 1
	case Period3m:
		return 3
	case Period5m:
		return 5
	case Period15m:
		return 15
	case Period30m:
		return 30
	case Period60m:
		return 60
	case Period120m:
		return 120
	case Period1d:
		return 1440
	case Period1w:
		return 10080
	case Period1Month:
		return 43200
	}
	return 0
}
