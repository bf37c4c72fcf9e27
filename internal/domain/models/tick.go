package models

import "time"

// Tick is one raw market data event as received from a feed or Kafka.
// TradingDay is the exchange-assigned owning day in YYYYMMDD form;
// feeds that key by the session's natural date set SessionDay instead.
type Tick struct {
	Symbol     string
	TradingDay uint32
	SessionDay uint32
	Time       time.Time
	Price      float64
	Volume     float64
}

// MinuteBar is a tick stamped onto its 1m bar. TickTime is the raw
// tick time rebased onto the resolved calendar date.
type MinuteBar struct {
	Symbol     string
	Breed      string
	TradingDay uint32
	BarTime    time.Time
	TickTime   time.Time
	Price      float64
	Volume     float64
}
