package receipt

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/adhami/splitscan/pkg/middleware"
	"github.com/adhami/splitscan/pkg/response"
)

// Handler handles HTTP requests for receipt operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new receipt handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for receipt endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Delete("/", h.DeleteAll)
	r.Get("/{id}", h.GetByID)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/split", h.Split)

	return r
}

// Create handles POST /receipts
// @Summary      Create a receipt
// @Description  Store a receipt from manual entry or reviewed extraction output
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        request body CreateReceiptRequest true "Receipt creation request"
// @Success      201 {object} response.APIResponse{data=ReceiptResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /receipts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	rec, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	response.JSON(w, http.StatusCreated, rec.ToResponse())
}

// List handles GET /receipts
// @Summary      List receipts
// @Description  Get the authenticated user's receipts, newest first, each annotated with its computed total
// @Tags         receipts
// @Produce      json
// @Param        limit query int false "Maximum number of receipts" maximum(100)
// @Success      200 {object} response.APIResponse{data=[]ReceiptResponse}
// @Router       /receipts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	receipts, err := h.service.List(r.Context(), userID, limit)
	if err != nil {
		response.InternalError(w, "Failed to list receipts")
		return
	}

	resp := make([]*ReceiptResponse, len(receipts))
	for i, rec := range receipts {
		resp[i] = rec.ToResponse()
	}
	response.JSONWithMeta(w, http.StatusOK, resp, &response.Meta{Total: len(resp)})
}

// GetByID handles GET /receipts/{id}
// @Summary      Get a receipt
// @Tags         receipts
// @Produce      json
// @Param        id path string true "Receipt ID"
// @Success      200 {object} response.APIResponse{data=ReceiptResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	rec, err := h.service.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get receipt")
		return
	}

	response.JSON(w, http.StatusOK, rec.ToResponse())
}

// Update handles PATCH /receipts/{id}
// @Summary      Update a receipt
// @Description  Partially update a receipt; provided collections replace stored ones wholesale
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        id path string true "Receipt ID"
// @Param        request body UpdateReceiptRequest true "Fields to update"
// @Success      200 {object} response.APIResponse{data=ReceiptResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	rec, err := h.service.Update(r.Context(), userID, chi.URLParam(r, "id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrReceiptNotFound):
			response.NotFound(w, err.Error())
		case errors.Is(err, ErrInvalidReceipt),
			errors.Is(err, ErrNoLineItems),
			errors.Is(err, ErrReservedParticipant),
			errors.Is(err, ErrDuplicateParticipant):
			response.BadRequest(w, err.Error())
		default:
			response.InternalError(w, "Failed to update receipt")
		}
		return
	}

	response.JSON(w, http.StatusOK, rec.ToResponse())
}

// Delete handles DELETE /receipts/{id}
// @Summary      Delete a receipt
// @Tags         receipts
// @Param        id path string true "Receipt ID"
// @Success      204
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete receipt")
		return
	}

	response.NoContent(w)
}

// DeleteAll handles DELETE /receipts
// @Summary      Delete all receipts
// @Description  Remove every receipt owned by the authenticated user
// @Tags         receipts
// @Produce      json
// @Success      200 {object} response.APIResponse
// @Router       /receipts [delete]
func (h *Handler) DeleteAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	n, err := h.service.DeleteAll(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to delete receipts")
		return
	}

	response.JSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

// Split handles GET /receipts/{id}/split
// @Summary      Compute the split breakdown
// @Description  Compute per-participant cost breakdowns for the receipt under its split mode. Breakdowns are recomputed on demand and never stored.
// @Tags         receipts
// @Produce      json
// @Param        id path string true "Receipt ID"
// @Success      200 {object} response.APIResponse{data=SplitResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{id}/split [get]
func (h *Handler) Split(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	result, err := h.service.Split(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute split")
		return
	}

	response.JSON(w, http.StatusOK, result)
}
