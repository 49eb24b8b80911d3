package consultation

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/doctordroid/intake/internal/domain/catalog"
	"github.com/doctordroid/intake/internal/domain/selection"
)

// Handler exposes one operator session (selection plus controller) over HTTP.
type Handler struct {
	catalog *catalog.Catalog
	store   *selection.Store
	ctrl    *Controller
}

func NewHandler(cat *catalog.Catalog, store *selection.Store, ctrl *Controller) *Handler {
	return &Handler{catalog: cat, store: store, ctrl: ctrl}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	api.GET("/catalog", h.GetCatalog)

	api.GET("/selection", h.GetSelection)
	api.POST("/selection/symptoms/:id", h.ToggleSymptom)
	api.POST("/selection/allergies/:id", h.ToggleAllergy)
	api.DELETE("/selection", h.ResetSelection)

	api.GET("/consultation", h.GetConsultation)
	api.POST("/consultation", h.SubmitConsultation)
	api.DELETE("/consultation", h.CancelConsultation)
}

type selectionResponse struct {
	Symptoms  []catalog.Entry `json:"symptoms"`
	Allergies []catalog.Entry `json:"allergies"`
	Selected  int             `json:"selected"`
	Loading   bool            `json:"loading"`
	CanSubmit bool            `json:"can_submit"`
}

func (h *Handler) selectionView() selectionResponse {
	resp := selectionResponse{
		Symptoms:  []catalog.Entry{},
		Allergies: []catalog.Entry{},
		Loading:   h.ctrl.Loading(),
	}
	for _, id := range h.store.Symptoms() {
		resp.Symptoms = append(resp.Symptoms, catalog.Entry{ID: id, Label: h.catalog.Label(catalog.KindSymptom, id)})
	}
	for _, id := range h.store.Allergies() {
		resp.Allergies = append(resp.Allergies, catalog.Entry{ID: id, Label: h.catalog.Label(catalog.KindAllergy, id)})
	}
	resp.Selected = len(resp.Symptoms)
	resp.CanSubmit = h.ctrl.CanSubmit()
	return resp
}

func (h *Handler) GetCatalog(c echo.Context) error {
	return c.JSON(http.StatusOK, h.catalog)
}

func (h *Handler) GetSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, h.selectionView())
}

func (h *Handler) ToggleSymptom(c echo.Context) error {
	id := c.Param("id")
	if !h.catalog.HasSymptom(id) {
		return echo.NewHTTPError(http.StatusNotFound, "symptom not found")
	}
	h.store.ToggleSymptom(id)
	return c.JSON(http.StatusOK, h.selectionView())
}

func (h *Handler) ToggleAllergy(c echo.Context) error {
	id := c.Param("id")
	if !h.catalog.HasAllergy(id) {
		return echo.NewHTTPError(http.StatusNotFound, "allergy not found")
	}
	h.store.ToggleAllergy(id)
	return c.JSON(http.StatusOK, h.selectionView())
}

func (h *Handler) ResetSelection(c echo.Context) error {
	h.store.Reset()
	return c.JSON(http.StatusOK, h.selectionView())
}

func (h *Handler) GetConsultation(c echo.Context) error {
	return c.JSON(http.StatusOK, Render(h.ctrl.Outcome()))
}

// SubmitConsultation runs a submission for the current selection and waits
// for it to settle.
func (h *Handler) SubmitConsultation(c echo.Context) error {
	attempt, err := h.ctrl.Begin(c.Request().Context())
	switch {
	case errors.Is(err, ErrSubmissionInFlight):
		return echo.NewHTTPError(http.StatusConflict, "a consultation is already in progress")
	case errors.Is(err, ErrNoSymptoms):
		return c.JSON(http.StatusUnprocessableEntity, Render(h.ctrl.Outcome()))
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	res, err := attempt.Run()
	outcome := h.ctrl.Settle(attempt, res, err)

	status := http.StatusOK
	if outcome.State == StateFailure {
		status = http.StatusBadGateway
	}
	return c.JSON(status, Render(outcome))
}

func (h *Handler) CancelConsultation(c echo.Context) error {
	if !h.ctrl.Cancel() {
		return echo.NewHTTPError(http.StatusNotFound, "no consultation in progress")
	}
	return c.NoContent(http.StatusNoContent)
}
