package output

import (
	"github.com/quantworks/cerebro/model"
	"github.com/quantworks/cerebro/shared/jsonout"
	"github.com/quantworks/cerebro/shared/resulttable"
	"github.com/quantworks/cerebro/shared/spinner"
)

// Format represents the output format type
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
)

// Renderer defines the interface for drawing results
type Renderer interface {
	DrawRunTable(input model.RenderRunInput)
	DrawOptTable(input model.RenderOptInput)
	DrawSensitivityTable(param string, sensitivity map[string]float64)
	OutputRunJSON(input model.RenderRunInput) error
	OutputOptJSON(input model.RenderOptInput) error
	StopSpinner()
}

type realRenderer struct{}

func (r *realRenderer) DrawRunTable(input model.RenderRunInput) {
	resulttable.DrawRunTable(input)
}

func (r *realRenderer) DrawOptTable(input model.RenderOptInput) {
	resulttable.DrawOptTable(input)
}

func (r *realRenderer) DrawSensitivityTable(param string, sensitivity map[string]float64) {
	resulttable.DrawSensitivityTable(param, sensitivity)
}

func (r *realRenderer) OutputRunJSON(input model.RenderRunInput) error {
	return jsonout.OutputRunJSON(input)
}

func (r *realRenderer) OutputOptJSON(input model.RenderOptInput) error {
	return jsonout.OutputOptJSON(input)
}

func (r *realRenderer) StopSpinner() {
	spinner.StopSpinner()
}

// service is the internal implementation
type service struct {
	format   Format
	renderer Renderer
}

// Service defines the interface for output operations
type Service interface {
	RenderRun(input model.RenderRunInput) error
	RenderOpt(input model.RenderOptInput) error
	RenderSensitivity(param string, sensitivity map[string]float64)
	StopSpinner()
}
