package models

// BucketRequest asks for the candle of a period holding a bar time.
type BucketRequest struct {
	Symbol string `query:"symbol" validate:"required"`
	Period string `query:"period" validate:"required"`
	Time   string `query:"time" validate:"required"` // 2006-01-02 15:04:05
}

// BucketResponse is the resolved candle window.
type BucketResponse struct {
	Symbol string `json:"symbol"`
	Breed  string `json:"breed"`
	Period string `json:"period"`
	Start  string `json:"start"`
	End    string `json:"end"`
}

// MinuteRequest asks for the 1m bar of a raw tick time. Exactly one of
// TradingDay and SessionDay keys the date resolution.
type MinuteRequest struct {
	Symbol     string `query:"symbol" validate:"required"`
	TradingDay uint32 `query:"trading_day"`
	SessionDay uint32 `query:"session_day"`
	Time       string `query:"time" validate:"required"` // 2006-01-02 15:04:05
}

// MinuteResponse is the stamped 1m bar.
type MinuteResponse struct {
	Symbol string `json:"symbol"`
	Breed  string `json:"breed"`
	Bar    string `json:"bar"`
	Tick   string `json:"tick"`
}
