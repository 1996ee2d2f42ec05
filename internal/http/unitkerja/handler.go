package unitkerja

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/prasetyadi/biltrack/internal/billing"
	"github.com/prasetyadi/biltrack/internal/http/records"
	"github.com/prasetyadi/biltrack/internal/http/respond"
)

var validate = validator.New()

type Handler struct {
	svc *billing.Service
}

func NewHandler(svc *billing.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes uses query-string ids (?id=) rather than path params; the dashboard
// client was built against that shape.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/", h.update)
	r.Delete("/", h.delete)
}

type recordResponse struct {
	ID         int64  `json:"id"`
	NamaLokasi string `json:"nama_lokasi"`
	Year       int    `json:"year"`
	Tarif      int64  `json:"tarif"`
	records.MonthValues
	Total     int64      `json:"total"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func toResponse(rec *billing.Record) recordResponse {
	return recordResponse{
		ID:          rec.ID,
		NamaLokasi:  rec.LocationName,
		Year:        rec.Year,
		Tarif:       rec.Rate,
		MonthValues: records.ValuesFrom(rec.Months),
		Total:       rec.Total,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

func toResponseList(recs []*billing.Record) []recordResponse {
	resp := make([]recordResponse, len(recs))
	for i, rec := range recs {
		resp[i] = toResponse(rec)
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()

	if s := r.URL.Query().Get("year"); s != "" {
		y, err := strconv.Atoi(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "year tidak valid")
			return
		}

		year = y
	}

	recs, err := h.svc.List(r.Context(), billing.ListFilter{
		Year:   year,
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		records.WriteError(w, err)
		return
	}

	respond.Data(w, http.StatusOK, toResponseList(recs))
}

type createRequest struct {
	NamaLokasi string `json:"nama_lokasi" validate:"required"`
	Year       int    `json:"year" validate:"required,gte=2000,lte=2100"`
	Tarif      *int64 `json:"tarif" validate:"required,gte=0"`
	records.MonthFields
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	rec, err := h.svc.Create(r.Context(), billing.CreateParams{
		LocationName: req.NamaLokasi,
		Year:         req.Year,
		Rate:         req.Tarif,
		Months:       req.Flags(),
	})
	if err != nil {
		records.WriteError(w, err)
		return
	}

	respond.Created(w, "Data berhasil ditambahkan", rec.ID)
}

type updateRequest struct {
	NamaLokasi *string `json:"nama_lokasi"`
	Tarif      *int64  `json:"tarif" validate:"omitempty,gte=0"`
	records.MonthFields
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := records.RequireID(w, r)
	if !ok {
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.svc.Update(r.Context(), id, billing.UpdateParams{
		LocationName: req.NamaLokasi,
		Rate:         req.Tarif,
		Months:       req.Patch(),
	}); err != nil {
		records.WriteError(w, err)
		return
	}

	respond.Message(w, http.StatusOK, "Data berhasil diupdate")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := records.RequireID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		records.WriteError(w, err)
		return
	}

	respond.Message(w, http.StatusOK, "Data berhasil dihapus")
}
