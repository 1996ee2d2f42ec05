package monthly

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/prasetyadi/biltrack/internal/http/respond"
	"github.com/prasetyadi/biltrack/internal/summary"
)

type Handler struct {
	svc *summary.Service
}

func NewHandler(svc *summary.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.yearly)
}

type bucketResponse struct {
	Month          string `json:"month"`
	MonthName      string `json:"month_name"`
	Year           int    `json:"year"`
	UnitKerjaTotal int64  `json:"unit_kerja_total"`
	EDCTotal       int64  `json:"edc_total"`
	TotalRevenue   int64  `json:"total_pendapatan"`
}

func (h *Handler) yearly(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "year tidak valid")
			return
		}

		year = y
	}

	sum, err := h.svc.Yearly(r.Context(), year)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, err.Error())
		return
	}

	buckets := make([]bucketResponse, len(sum.Months))
	for i, b := range sum.Months {
		buckets[i] = bucketResponse{
			Month:          b.Month,
			MonthName:      b.MonthName,
			Year:           b.Year,
			UnitKerjaTotal: b.UnitKerjaTotal,
			EDCTotal:       b.EDCTotal,
			TotalRevenue:   b.Combined,
		}
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"status":       "success",
		"data":         buckets,
		"year":         sum.Year,
		"yearly_total": sum.YearlyTotal,
	})
}
