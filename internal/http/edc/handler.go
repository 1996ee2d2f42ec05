package edc

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

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Put("/", h.update)
	r.Delete("/", h.delete)
}

type recordResponse struct {
	ID         int64        `json:"id"`
	NamaLokasi string       `json:"nama_lokasi"`
	Year       int          `json:"year"`
	Jenis      billing.Kind `json:"jenis"`
	Tagihan    int64        `json:"tagihan"`
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
		Jenis:       rec.Kind,
		Tagihan:     rec.Rate,
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

	filter := billing.ListFilter{
		Year:   year,
		Search: r.URL.Query().Get("search"),
	}

	if s := r.URL.Query().Get("jenis"); s != "" {
		kind := billing.Kind(s)
		if !kind.Valid() {
			respond.Error(w, http.StatusBadRequest, "jenis tidak valid")
			return
		}

		filter.Kind = &kind
	}

	recs, err := h.svc.List(r.Context(), filter)
	if err != nil {
		records.WriteError(w, err)
		return
	}

	respond.Data(w, http.StatusOK, toResponseList(recs))
}

type createRequest struct {
	NamaLokasi string       `json:"nama_lokasi" validate:"required"`
	Year       int          `json:"year" validate:"required,gte=2000,lte=2100"`
	Jenis      billing.Kind `json:"jenis" validate:"required,oneof='EDC' 'EDC + CCTV'"`
	Tagihan    *int64       `json:"tagihan" validate:"omitempty,gte=0"`
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

	// Tagihan may be omitted; the jenis then picks its canonical rate.
	rec, err := h.svc.Create(r.Context(), billing.CreateParams{
		LocationName: req.NamaLokasi,
		Year:         req.Year,
		Kind:         req.Jenis,
		Rate:         req.Tagihan,
		Months:       req.Flags(),
	})
	if err != nil {
		records.WriteError(w, err)
		return
	}

	respond.Created(w, "Data berhasil ditambahkan", rec.ID)
}

type updateRequest struct {
	NamaLokasi *string       `json:"nama_lokasi"`
	Jenis      *billing.Kind `json:"jenis" validate:"omitempty,oneof='EDC' 'EDC + CCTV'"`
	Tagihan    *int64        `json:"tagihan" validate:"omitempty,gte=0"`
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
		Kind:         req.Jenis,
		Rate:         req.Tagihan,
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
