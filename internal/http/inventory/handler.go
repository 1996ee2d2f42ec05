package inventory

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/prasetyadi/biltrack/internal/auth"
	"github.com/prasetyadi/biltrack/internal/http/respond"
	"github.com/prasetyadi/biltrack/internal/inventory"
)

var validate = validator.New()

type Handler struct {
	svc *inventory.Service
}

func NewHandler(svc *inventory.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", h.listCategories)
		r.Post("/", h.createCategory)
		r.Put("/", h.updateCategory)
		r.Delete("/", h.deleteCategory)
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.listItems)
		r.Post("/", h.createItem)
		r.Put("/", h.updateItem)
		r.Delete("/", h.deleteItem)
	})

	r.Route("/movements", func(r chi.Router) {
		r.Get("/", h.listMovements)
		r.Post("/", h.createMovement)
	})

	r.Get("/reports", h.reports)
}

type categoryResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	ItemCount   int        `json:"item_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]categoryResponse, len(cats))
	for i, cat := range cats {
		resp[i] = categoryResponse{
			ID:          cat.ID,
			Name:        cat.Name,
			Description: cat.Description,
			ItemCount:   cat.ItemCount,
			CreatedAt:   cat.CreatedAt,
			UpdatedAt:   cat.UpdatedAt,
		}
	}

	respond.Data(w, http.StatusOK, resp)
}

type categoryRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

func (h *Handler) createCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	cat, err := h.svc.CreateCategory(r.Context(), inventory.CategoryParams{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Created(w, "Category created successfully", cat.ID)
}

func (h *Handler) updateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUUID(w, r)
	if !ok {
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.UpdateCategory(r.Context(), id, inventory.CategoryParams{
		Name:        req.Name,
		Description: req.Description,
	}); err != nil {
		writeError(w, err)
		return
	}

	respond.Message(w, http.StatusOK, "Category updated successfully")
}

func (h *Handler) deleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUUID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	respond.Message(w, http.StatusOK, "Category deleted successfully")
}

type itemResponse struct {
	ID            uuid.UUID             `json:"id"`
	Name          string                `json:"name"`
	CategoryID    *uuid.UUID            `json:"category_id,omitempty"`
	CategoryName  string                `json:"category_name,omitempty"`
	SKU           string                `json:"sku"`
	Description   string                `json:"description"`
	Price         float64               `json:"price"`
	StockQuantity int                   `json:"stock_quantity"`
	MinStockLevel int                   `json:"min_stock_level"`
	Status        string                `json:"status"`
	StockStatus   inventory.StockStatus `json:"stock_status"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     *time.Time            `json:"updated_at,omitempty"`
}

func toItemResponse(item *inventory.Item) itemResponse {
	return itemResponse{
		ID:            item.ID,
		Name:          item.Name,
		CategoryID:    item.CategoryID,
		CategoryName:  item.CategoryName,
		SKU:           item.SKU,
		Description:   item.Description,
		Price:         item.Price,
		StockQuantity: item.StockQuantity,
		MinStockLevel: item.MinStockLevel,
		Status:        item.Status,
		StockStatus:   item.StockStatus,
		CreatedAt:     item.CreatedAt,
		UpdatedAt:     item.UpdatedAt,
	}
}

func toItemResponseList(items []*inventory.Item) []itemResponse {
	resp := make([]itemResponse, len(items))
	for i, item := range items {
		resp[i] = toItemResponse(item)
	}

	return resp
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	filter := inventory.ItemFilter{
		Search: r.URL.Query().Get("search"),
	}

	if s := r.URL.Query().Get("category"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid category id")
			return
		}

		filter.CategoryID = &id
	}

	if s := r.URL.Query().Get("status"); s != "" {
		status := inventory.StockStatus(s)
		if !status.Valid() {
			respond.Error(w, http.StatusBadRequest, "invalid status filter")
			return
		}

		filter.Status = status
	}

	items, err := h.svc.Items(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Data(w, http.StatusOK, toItemResponseList(items))
}

type createItemRequest struct {
	Name          string     `json:"name" validate:"required"`
	CategoryID    *uuid.UUID `json:"category_id"`
	SKU           string     `json:"sku"`
	Description   string     `json:"description"`
	Price         float64    `json:"price" validate:"gte=0"`
	StockQuantity int        `json:"stock_quantity" validate:"gte=0"`
	MinStockLevel int        `json:"min_stock_level" validate:"gte=0"`
	Status        string     `json:"status"`
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := h.svc.CreateItem(r.Context(), inventory.CreateItemParams{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		SKU:           req.SKU,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		Status:        req.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Created(w, "Item created successfully", item.ID)
}

type updateItemRequest struct {
	Name          *string    `json:"name"`
	CategoryID    *uuid.UUID `json:"category_id"`
	SKU           *string    `json:"sku"`
	Description   *string    `json:"description"`
	Price         *float64   `json:"price" validate:"omitempty,gte=0"`
	StockQuantity *int       `json:"stock_quantity" validate:"omitempty,gte=0"`
	MinStockLevel *int       `json:"min_stock_level" validate:"omitempty,gte=0"`
	Status        *string    `json:"status"`
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUUID(w, r)
	if !ok {
		return
	}

	var req updateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.svc.UpdateItem(r.Context(), id, inventory.UpdateItemParams{
		Name:          req.Name,
		CategoryID:    req.CategoryID,
		SKU:           req.SKU,
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		MinStockLevel: req.MinStockLevel,
		Status:        req.Status,
	}); err != nil {
		writeError(w, err)
		return
	}

	respond.Message(w, http.StatusOK, "Item updated successfully")
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := requireUUID(w, r)
	if !ok {
		return
	}

	if err := h.svc.DeleteItem(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	respond.Message(w, http.StatusOK, "Item deleted successfully")
}

type movementResponse struct {
	ID           uuid.UUID              `json:"id"`
	ItemID       uuid.UUID              `json:"item_id"`
	ItemName     string                 `json:"item_name"`
	SKU          string                 `json:"sku"`
	CategoryName string                 `json:"category_name,omitempty"`
	Type         inventory.MovementType `json:"movement_type"`
	Quantity     int                    `json:"quantity"`
	Reference    string                 `json:"reference_number"`
	Notes        string                 `json:"notes"`
	CreatedBy    string                 `json:"created_by"`
	CreatedAt    time.Time              `json:"created_at"`
}

func toMovementResponseList(mvs []*inventory.Movement) []movementResponse {
	resp := make([]movementResponse, len(mvs))
	for i, mv := range mvs {
		resp[i] = movementResponse{
			ID:           mv.ID,
			ItemID:       mv.ItemID,
			ItemName:     mv.ItemName,
			SKU:          mv.SKU,
			CategoryName: mv.CategoryName,
			Type:         mv.Type,
			Quantity:     mv.Quantity,
			Reference:    mv.Reference,
			Notes:        mv.Notes,
			CreatedBy:    mv.CreatedBy,
			CreatedAt:    mv.CreatedAt,
		}
	}

	return resp
}

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	filter := inventory.MovementFilter{}

	if s := r.URL.Query().Get("item_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid item id")
			return
		}

		filter.ItemID = &id
	}

	if s := r.URL.Query().Get("limit"); s != "" {
		limit, err := strconv.Atoi(s)
		if err != nil {
			respond.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}

		filter.Limit = limit
	}

	mvs, err := h.svc.Movements(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Data(w, http.StatusOK, toMovementResponseList(mvs))
}

type createMovementRequest struct {
	ItemID    uuid.UUID              `json:"item_id" validate:"required"`
	Type      inventory.MovementType `json:"movement_type" validate:"required,oneof=in out"`
	Quantity  int                    `json:"quantity" validate:"required,gt=0"`
	Reference string                 `json:"reference_number"`
	Notes     string                 `json:"notes"`
	CreatedBy string                 `json:"created_by"`
}

func (h *Handler) createMovement(w http.ResponseWriter, r *http.Request) {
	var req createMovementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := validate.Struct(req); err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	// The authenticated identity wins over whatever the client claims.
	actor := auth.Actor(r.Context())
	if actor == "" {
		actor = req.CreatedBy
	}

	mv, err := h.svc.RecordMovement(r.Context(), inventory.MovementParams{
		ItemID:    req.ItemID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reference: req.Reference,
		Notes:     req.Notes,
		Actor:     actor,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	respond.Created(w, "Stock movement recorded successfully", mv.ID)
}

type summaryRowResponse struct {
	Category   string  `json:"category"`
	TotalItems int     `json:"total_items"`
	TotalStock int     `json:"total_stock"`
	OutOfStock int     `json:"out_of_stock"`
	LowStock   int     `json:"low_stock"`
	TotalValue float64 `json:"total_value"`
}

func (h *Handler) reports(w http.ResponseWriter, r *http.Request) {
	reportType := r.URL.Query().Get("type")
	if reportType == "" {
		reportType = "stock_summary"
	}

	switch reportType {
	case "stock_summary":
		rows, err := h.svc.StockSummary(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]summaryRowResponse, len(rows))
		for i, row := range rows {
			resp[i] = summaryRowResponse{
				Category:   row.Category,
				TotalItems: row.TotalItems,
				TotalStock: row.TotalStock,
				OutOfStock: row.OutOfStock,
				LowStock:   row.LowStock,
				TotalValue: row.TotalValue,
			}
		}

		respond.Data(w, http.StatusOK, resp)

	case "low_stock":
		items, err := h.svc.LowStock(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		respond.Data(w, http.StatusOK, toItemResponseList(items))

	case "movements":
		days := 0

		if s := r.URL.Query().Get("days"); s != "" {
			d, err := strconv.Atoi(s)
			if err != nil {
				respond.Error(w, http.StatusBadRequest, "invalid days")
				return
			}

			days = d
		}

		mvs, err := h.svc.RecentMovements(r.Context(), days)
		if err != nil {
			writeError(w, err)
			return
		}

		respond.Data(w, http.StatusOK, toMovementResponseList(mvs))

	default:
		respond.Error(w, http.StatusBadRequest, "invalid report type")
	}
}

func requireUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	s := r.URL.Query().Get("id")
	if s == "" {
		respond.Error(w, http.StatusBadRequest, "ID not provided")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(s)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}

	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "record not found")
	case errors.Is(err, inventory.ErrCategoryInUse):
		respond.Error(w, http.StatusConflict, "category still has items")
	default:
		respond.Error(w, http.StatusInternalServerError, err.Error())
	}
}
