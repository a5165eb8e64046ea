package strategy

import (
	"math"

	"github.com/quantworks/cerebro/model"
	"github.com/quantworks/cerebro/service/indicator"
)

func init() {
	Register("smacross", func(p model.Params) Strategy {
		return &SMACross{
			Fast: p.GetInt("fast", 10),
			Slow: p.GetInt("slow", 30),
		}
	})
	Register("rsirevert", func(p model.Params) Strategy {
		return &RSIRevert{
			Period: p.GetInt("period", 14),
			Lower:  p.GetFloat("lower", 30),
			Upper:  p.GetFloat("upper", 70),
		}
	})
	Register("bollingerrevert", func(p model.Params) Strategy {
		return &BollingerRevert{
			Period:    p.GetInt("period", 20),
			DevFactor: p.GetFloat("devfactor", 2.0),
		}
	})
	Register("buyhold", func(model.Params) Strategy {
		return &BuyHold{}
	})
}

// SMACross goes long when the fast SMA crosses above the slow SMA and
// flattens when it crosses back below.
type SMACross struct {
	Base
	Fast int
	Slow int

	cross *indicator.CrossOver
}

func (s *SMACross) Init(ctx *Context) error {
	if err := s.Base.Init(ctx); err != nil {
		return err
	}
	fast := indicator.NewSMA(s.Fast)
	slow := indicator.NewSMA(s.Slow)
	s.cross = indicator.NewCrossOver(fast.Line(), slow.Line())
	s.AddIndicator(fast)
	s.AddIndicator(slow)
	s.AddIndicator(s.cross)
	return nil
}

func (s *SMACross) Next() {
	switch s.cross.Line().Get(0) {
	case 1.0:
		if s.Position().Size <= 0 {
			s.Close()
			s.Buy()
		}
	case -1.0:
		if s.Position().Size > 0 {
			s.Close()
		}
	}
}

// RSIRevert buys oversold dips and exits once the RSI recovers past the
// upper threshold.
type RSIRevert struct {
	Base
	Period int
	Lower  float64
	Upper  float64

	rsi *indicator.RSI
}

func (s *RSIRevert) Init(ctx *Context) error {
	if err := s.Base.Init(ctx); err != nil {
		return err
	}
	s.rsi = indicator.NewRSI(s.Period)
	s.AddIndicator(s.rsi)
	return nil
}

func (s *RSIRevert) Next() {
	v := s.rsi.Line().Get(0)
	if math.IsNaN(v) {
		return
	}
	pos := s.Position().Size
	if pos == 0 && v < s.Lower {
		s.Buy()
	} else if pos > 0 && v > s.Upper {
		s.Close()
	}
}

// BollingerRevert buys a close below the lower band and exits when the
// close reverts past the middle band.
type BollingerRevert struct {
	Base
	Period    int
	DevFactor float64

	bands *indicator.Bollinger
}

func (s *BollingerRevert) Init(ctx *Context) error {
	if err := s.Base.Init(ctx); err != nil {
		return err
	}
	s.bands = indicator.NewBollinger(s.Period, s.DevFactor)
	s.AddIndicator(s.bands)
	return nil
}

func (s *BollingerRevert) Next() {
	price := s.Data().Close().Get(0)
	bot := s.bands.Bot().Get(0)
	mid := s.bands.Line().Get(0)
	if math.IsNaN(bot) || math.IsNaN(mid) {
		return
	}
	pos := s.Position().Size
	if pos == 0 && price < bot {
		s.Buy()
	} else if pos > 0 && price > mid {
		s.Close()
	}
}

// BuyHold buys once on the first bar and holds to the end.
type BuyHold struct {
	Base
}

func (s *BuyHold) NextStart() {
	s.Buy()
}
