package model

import "time"

// Bar is a single OHLCV bar.
type Bar struct {
	Time         time.Time
	Open         float64
	High         float64
	Low          float64
	Close        float64
	Volume       float64
	OpenInterest float64
}
