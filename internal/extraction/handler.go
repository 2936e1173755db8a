package extraction

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/adhami/splitscan/pkg/middleware"
	"github.com/adhami/splitscan/pkg/response"
)

// maxUploadBytes bounds the request body; a base64 data URI inflates the
// image by about a third.
const maxUploadBytes = 12 << 20

// ExtractRequest represents the request to extract receipts from a photo.
type ExtractRequest struct {
	PhotoDataURI string `json:"photo_data_uri" validate:"required"`
}

// ExtractResponse carries the extracted receipt candidates.
type ExtractResponse struct {
	Receipts []ReceiptData `json:"receipts"`
}

// Handler handles HTTP requests for receipt extraction.
type Handler struct {
	service *Service
}

// NewHandler creates a new extraction handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for extraction endpoints.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Extract)
	return r
}

// Extract handles POST /extract
// @Summary      Extract receipts from a photo
// @Description  Run AI extraction on a base64 data URI photo and return up to 5 receipt candidates for review. Candidates are not persisted.
// @Tags         extraction
// @Accept       json
// @Produce      json
// @Param        request body ExtractRequest true "Photo payload"
// @Success      200 {object} response.APIResponse{data=ExtractResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      422 {object} response.APIResponse
// @Router       /extract [post]
func (h *Handler) Extract(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserID(r.Context()); !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var req ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RequestTooLarge(w, "Photo exceeds the upload size limit")
			return
		}
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.PhotoDataURI == "" {
		response.BadRequest(w, "photo_data_uri is required")
		return
	}

	receipts, err := h.service.Extract(r.Context(), req.PhotoDataURI)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDataURI):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrNoReceiptsFound):
			response.UnprocessableEntity(w, "EXTRACTION_FAILED", err.Error())
		default:
			response.UnprocessableEntity(w, "EXTRACTION_FAILED", "Could not extract receipt data from the photo")
		}
		return
	}

	response.JSON(w, http.StatusOK, &ExtractResponse{Receipts: receipts})
}
