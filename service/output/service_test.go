package output

import (
	"testing"

	"github.com/quantworks/cerebro/model"
)

type fakeRenderer struct {
	runTables  int
	optTables  int
	sensTables int
	runJSON    int
	optJSON    int
	stops      int
}

func (f *fakeRenderer) DrawRunTable(model.RenderRunInput) { f.runTables++ }
func (f *fakeRenderer) DrawOptTable(model.RenderOptInput) { f.optTables++ }
func (f *fakeRenderer) DrawSensitivityTable(string, map[string]float64) {
	f.sensTables++
}
func (f *fakeRenderer) OutputRunJSON(model.RenderRunInput) error { f.runJSON++; return nil }
func (f *fakeRenderer) OutputOptJSON(model.RenderOptInput) error { f.optJSON++; return nil }
func (f *fakeRenderer) StopSpinner()                             { f.stops++ }

func newTestService(format Format) (*service, *fakeRenderer) {
	fake := &fakeRenderer{}
	return &service{format: format, renderer: fake}, fake
}

func TestNewServiceFormatMapping(t *testing.T) {
	if svc := NewService("json").(*service); svc.format != FormatJSON {
		t.Errorf("expected json format, got %s", svc.format)
	}
	if svc := NewService("").(*service); svc.format != FormatTable {
		t.Errorf("expected table default, got %s", svc.format)
	}
	if svc := NewService("bogus").(*service); svc.format != FormatTable {
		t.Errorf("expected table fallback, got %s", svc.format)
	}
}

func TestRenderRunDispatch(t *testing.T) {
	svc, fake := newTestService(FormatTable)
	if err := svc.RenderRun(model.RenderRunInput{Result: &model.RunResult{}}); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if fake.runTables != 1 || fake.runJSON != 0 {
		t.Errorf("expected table render, got %+v", fake)
	}

	svc, fake = newTestService(FormatJSON)
	if err := svc.RenderRun(model.RenderRunInput{Result: &model.RunResult{}}); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if fake.runJSON != 1 || fake.runTables != 0 {
		t.Errorf("expected json render, got %+v", fake)
	}
}

func TestRenderOptDispatch(t *testing.T) {
	svc, fake := newTestService(FormatJSON)
	if err := svc.RenderOpt(model.RenderOptInput{}); err != nil {
		t.Fatalf("render failed: %v", err)
	}
	if fake.optJSON != 1 {
		t.Errorf("expected json render, got %+v", fake)
	}
}

func TestRenderSensitivitySkippedForJSON(t *testing.T) {
	svc, fake := newTestService(FormatJSON)
	svc.RenderSensitivity("fast", map[string]float64{"5": 1})
	if fake.sensTables != 0 {
		t.Error("sensitivity table must be skipped in json mode")
	}

	svc, fake = newTestService(FormatTable)
	svc.RenderSensitivity("fast", map[string]float64{"5": 1})
	if fake.sensTables != 1 {
		t.Error("expected sensitivity table render")
	}
}
