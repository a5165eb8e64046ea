package flag

import "github.com/quantworks/cerebro/model"

type service struct{}

// Service is the interface for CLI flag service.
type Service interface {
	GetParsedFlags() (model.Flags, error)
	Changed(name string) bool
}
