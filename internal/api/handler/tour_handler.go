package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// statsMinRating is the rating floor of the tour statistics.
const statsMinRating = 4.5

// TourHandler serves the tour resource and its aggregations.
type TourHandler struct {
	*Resource[domain.Tour, domain.TourPatch]
	tours ports.TourRepository
}

func NewTourHandler(tours ports.TourRepository) *TourHandler {
	return &TourHandler{
		Resource: NewResource[domain.Tour, domain.TourPatch]("tour", "tours", tours, tourFields),
		tours:    tours,
	}
}

// TopCheap is the preset behind /tours/top-5-cheap.
func TopCheap() ListOption {
	return Preset(url.Values{
		"limit":  {"5"},
		"sort":   {"-ratingsAverage,price"},
		"fields": {"name,price,ratingsAverage,summary,difficulty"},
	})
}

// Stats groups well-rated tours by difficulty.
//
// @Summary      Tour statistics
// @Tags         tours
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /tours/tour-stats [get]
func (h *TourHandler) Stats(c echo.Context) error {
	stats, err := h.tours.Stats(c.Request().Context(), statsMinRating)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, data("stats", stats))
}

// MonthlyPlan counts tour starts per month of a year.
//
// @Summary      Monthly plan
// @Tags         tours
// @Produce      json
// @Param        year  path      int  true  "Year"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Router       /tours/monthly-plan/{year} [get]
func (h *TourHandler) MonthlyPlan(c echo.Context) error {
	raw := c.Param("year")
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 || year > 9999 {
		return domain.Errorf(domain.ErrValidation, "Invalid year: %s", raw)
	}

	plan, err := h.tours.MonthlyPlan(c.Request().Context(), year)
	if err != nil {
		return err
	}
	return success(c, http.StatusOK, data("plan", plan))
}
