// Package output provides a service for rendering results to the console.
package output

import (
	"github.com/quantworks/cerebro/model"
)

// NewService creates a new output service with the specified format
func NewService(format string) Service {
	f := FormatTable
	if format == "json" {
		f = FormatJSON
	}

	return &service{
		format:   f,
		renderer: &realRenderer{},
	}
}

func (s *service) RenderRun(input model.RenderRunInput) error {
	if s.format == FormatJSON {
		return s.renderer.OutputRunJSON(input)
	}
	s.renderer.DrawRunTable(input)
	return nil
}

func (s *service) RenderOpt(input model.RenderOptInput) error {
	if s.format == FormatJSON {
		return s.renderer.OutputOptJSON(input)
	}
	s.renderer.DrawOptTable(input)
	return nil
}

func (s *service) RenderSensitivity(param string, sensitivity map[string]float64) {
	// JSON mode embeds results in the opt report, no separate block.
	if s.format == FormatJSON {
		return
	}
	s.renderer.DrawSensitivityTable(param, sensitivity)
}

func (s *service) StopSpinner() {
	s.renderer.StopSpinner()
}
