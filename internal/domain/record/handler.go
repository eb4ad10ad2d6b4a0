package record

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/vasctrack/vasctrack/internal/domain/scoring"
	"github.com/vasctrack/vasctrack/internal/platform/auth"
	"github.com/vasctrack/vasctrack/pkg/pagination"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	write := auth.RequireRole("admin", "operator")
	admin := auth.RequireRole("admin")

	api.POST("/measurements", h.CreateMeasurement, write)
	api.POST("/measurements/classify", h.ClassifyMeasurement)
	api.POST("/sessions/assess", h.AssessSession)
	api.GET("/measurements", h.ListMeasurements)
	api.GET("/patients", h.ListPatients)
	api.GET("/patients/:name/stats", h.PatientStats)
	api.PUT("/patients/:name", h.RenamePatient, write)
	api.DELETE("/patients/:name", h.DeletePatient, admin)
}

type measurementRequest struct {
	PatientName string  `json:"patient_name"`
	ObservedAt  string  `json:"observed_at"`
	FV          float64 `json:"fv"`
	RI          float64 `json:"ri"`
	PI          float64 `json:"pi"`
	TAV         float64 `json:"tav"`
	TAMV        float64 `json:"tamv"`
	PSV         float64 `json:"psv"`
	EDV         float64 `json:"edv"`
	AccessType  string  `json:"access_type"`
	Phase       string  `json:"clinical_phase"`
	Note        string  `json:"note"`
}

func (req *measurementRequest) toRecord() (*MeasurementRecord, error) {
	rec := &MeasurementRecord{
		PatientName:   req.PatientName,
		FV:            req.FV,
		RI:            req.RI,
		PI:            req.PI,
		TAV:           req.TAV,
		TAMV:          req.TAMV,
		PSV:           req.PSV,
		EDV:           req.EDV,
		AccessType:    AccessType(req.AccessType),
		ClinicalPhase: ClinicalPhase(req.Phase),
		Note:          req.Note,
	}
	if req.ObservedAt != "" {
		t, err := parseObservedAt(req.ObservedAt)
		if err != nil {
			return nil, err
		}
		rec.ObservedAt = t
	}
	return rec, nil
}

type measurementResponse struct {
	Record   *MeasurementRecord `json:"record"`
	Tier     scoring.Tier       `json:"tier"`
	TAVR     float64            `json:"tavr"`
	RIOverPI float64            `json:"ri_over_pi"`
}

func (h *Handler) CreateMeasurement(c echo.Context) error {
	var req measurementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	rec, err := req.toRecord()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.Save(c.Request().Context(), rec)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusCreated, measurementResponse{
		Record:   rec,
		Tier:     result.Tier,
		TAVR:     result.TAVR,
		RIOverPI: result.RIOverPI,
	})
}

// ClassifyMeasurement scores a measurement without persisting it, for
// pre-submission review at the bedside.
func (h *Handler) ClassifyMeasurement(c echo.Context) error {
	var req measurementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	in := scoring.Inputs{
		FV: req.FV, RI: req.RI, PI: req.PI,
		TAV: req.TAV, TAMV: req.TAMV, PSV: req.PSV, EDV: req.EDV,
	}
	return c.JSON(http.StatusOK, h.service.Classify(in))
}

type sessionRequest struct {
	AccessType           string  `json:"access_type"`
	RecirculationPct     float64 `json:"recirculation_pct"`
	StaticVenousPressure float64 `json:"static_venous_pressure"`
	PressureRatio        float64 `json:"pressure_ratio"`
	NeedleDifficulty     bool    `json:"needle_difficulty"`
}

// AssessSession screens dialysis-session observations for surveillance
// advisories. Nothing is persisted.
func (h *Handler) AssessSession(c echo.Context) error {
	var req sessionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !AccessType(req.AccessType).Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("unknown access type %q", req.AccessType))
	}
	advisories := scoring.AssessSession(req.AccessType, scoring.SessionInputs{
		RecirculationPct:     req.RecirculationPct,
		StaticVenousPressure: req.StaticVenousPressure,
		PressureRatio:        req.PressureRatio,
		NeedleDifficulty:     req.NeedleDifficulty,
	})
	return c.JSON(http.StatusOK, map[string]any{"advisories": advisories})
}

func (h *Handler) ListMeasurements(c echo.Context) error {
	ctx := c.Request().Context()

	if patient := c.QueryParam("patient"); patient != "" {
		p := pagination.FromContext(c)
		records, total, err := h.service.Records(ctx, patient, p.Limit, p.Offset)
		if err != nil {
			return mapServiceError(err)
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(records, total, p.Limit, p.Offset))
	}

	records, err := h.service.AllRecords(ctx)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) ListPatients(c echo.Context) error {
	patients, err := h.service.Patients(c.Request().Context())
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, patients)
}

func (h *Handler) PatientStats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context(), c.Param("name"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

type renameRequest struct {
	NewName string `json:"new_name"`
}

func (h *Handler) RenamePatient(c echo.Context) error {
	var req renameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	moved, err := h.service.Rename(c.Request().Context(), c.Param("name"), req.NewName)
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"records_moved": moved})
}

func (h *Handler) DeletePatient(c echo.Context) error {
	removed, err := h.service.Delete(c.Request().Context(), c.Param("name"))
	if err != nil {
		return mapServiceError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"records_removed": removed})
}

// parseObservedAt accepts RFC 3339 timestamps and bare dates.
func parseObservedAt(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized observed_at %q", s)
	}
	return t, nil
}

func mapServiceError(err error) error {
	switch {
	case errors.Is(err, ErrInvalid):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrPatientExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case IsNotFound(err):
		return echo.NewHTTPError(http.StatusNotFound, "patient not found")
	}
	return err
}
