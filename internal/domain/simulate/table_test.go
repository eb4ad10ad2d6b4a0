package simulate

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestSimulate_LinearModel(t *testing.T) {
	table := Table{
		PSV:  Coefficients{Intercept: 1, FV: 2, RI: 3, Diameter: 4},
		EDV:  Coefficients{Intercept: 1},
		TAV:  Coefficients{Intercept: 10},
		TAMV: Coefficients{Intercept: 20},
	}
	p := table.Simulate(10, 0.5, 2)

	// 1 + 2*10 + 3*0.5 + 4*2 = 30.5
	if !almostEqual(p.PSV, 30.5) {
		t.Errorf("expected PSV 30.5, got %f", p.PSV)
	}
	// PI = (PSV - EDV) / TAMV = (30.5 - 1) / 20
	if !almostEqual(p.PI, 29.5/20) {
		t.Errorf("expected PI %f, got %f", 29.5/20, p.PI)
	}
	// TAVR = TAV / TAMV
	if !almostEqual(p.TAVR, 0.5) {
		t.Errorf("expected TAVR 0.5, got %f", p.TAVR)
	}
}

func TestSimulate_ZeroTAMV(t *testing.T) {
	table := Table{
		PSV:  Coefficients{Intercept: 100},
		EDV:  Coefficients{Intercept: 40},
		TAV:  Coefficients{Intercept: 50},
		TAMV: Coefficients{}, // predicts 0
	}
	p := table.Simulate(0, 0, 0)
	if p.PI != 0 {
		t.Errorf("expected PI 0 for zero TAMV, got %f", p.PI)
	}
	if p.TAVR != 0 {
		t.Errorf("expected TAVR 0 for zero TAMV, got %f", p.TAVR)
	}
}

func TestSimulate_DefaultTableAtBaseline(t *testing.T) {
	p := DefaultTable().Simulate(BaselineFV, BaselineRI, BaselineDiameter)

	// 37.664 + 0.0619*380 + 52.569*0.68 - 1.2*5.0
	wantPSV := 37.664 + 0.0619*380 + 52.569*0.68 - 1.2*5.0
	if !almostEqual(p.PSV, wantPSV) {
		t.Errorf("expected PSV %f, got %f", wantPSV, p.PSV)
	}
	if p.TAMV <= 0 {
		t.Errorf("expected positive TAMV at baseline, got %f", p.TAMV)
	}
	if p.TAVR <= 0 || p.TAVR >= 1 {
		t.Errorf("expected TAVR in (0,1) at baseline, got %f", p.TAVR)
	}
}

func TestLoadTable_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "simulator.yaml")
	yaml := `psv:
  intercept: 1.0
  fv: 2.0
  ri: 3.0
  diameter: 4.0
edv:
  intercept: 5.0
tav:
  intercept: 6.0
tamv:
  intercept: 7.0
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	table, err := LoadTable(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.PSV.FV != 2.0 || table.TAMV.Intercept != 7.0 {
		t.Errorf("unexpected table: %+v", table)
	}
}

func TestLoadTable_EmptyPathDefaults(t *testing.T) {
	table, err := LoadTable("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table != DefaultTable() {
		t.Errorf("expected default table, got %+v", table)
	}
}

func TestLoadTable_MissingFile(t *testing.T) {
	if _, err := LoadTable("/nonexistent/simulator.yaml"); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestHandler_Simulate(t *testing.T) {
	h := NewHandler(DefaultTable())
	e := echo.New()

	body := `{"fv":400,"ri":0.6,"diameter":5.0}`
	req := httptest.NewRequest(http.MethodPost, "/simulate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Simulate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var p Prediction
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	want := DefaultTable().Simulate(400, 0.6, 5.0)
	if !almostEqual(p.PSV, want.PSV) || !almostEqual(p.PI, want.PI) {
		t.Errorf("expected %+v, got %+v", want, p)
	}
}
