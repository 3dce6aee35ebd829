package api

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/captionrelay/backend/internal/caption"
	"github.com/captionrelay/backend/internal/captions"
	apperrors "github.com/captionrelay/backend/internal/errors"
)

// maxRequestBody caps the resolve request body size.
const maxRequestBody = 16 << 10

// CaptionHandlers serves the caption resolution endpoints.
type CaptionHandlers struct {
	service *captions.Service
}

// NewCaptionHandlers creates handlers on the given service.
func NewCaptionHandlers(service *captions.Service) *CaptionHandlers {
	return &CaptionHandlers{service: service}
}

type resolveRequest struct {
	URL  string `json:"url"`
	Lang string `json:"lang,omitempty"`
}

// Resolve handles POST /api/v1/captions: resolve captions for a video URL
// or ID with an optional language preference.
func (h *CaptionHandlers) Resolve(w http.ResponseWriter, r *http.Request) error {
	var req resolveRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		return apperrors.BadRequest("invalid JSON body")
	}
	if req.URL == "" {
		return apperrors.BadRequest("url is required")
	}

	result, err := h.service.Resolve(r.Context(), req.URL, req.Lang, nil)
	if err != nil {
		return err
	}

	apperrors.WriteJSON(w, apperrors.GetRequestID(r.Context()), http.StatusOK, result)
	return nil
}

type tracksResponse struct {
	VideoID string          `json:"video_id"`
	Tracks  []caption.Track `json:"tracks"`
}

// Tracks handles GET /api/v1/captions/{video_id}/tracks: discover a video's
// caption tracks without fetching cue data.
func (h *CaptionHandlers) Tracks(w http.ResponseWriter, r *http.Request) error {
	videoID, tracks, err := h.service.ListTracks(r.Context(), r.PathValue("video_id"))
	if err != nil {
		return err
	}

	apperrors.WriteJSON(w, apperrors.GetRequestID(r.Context()), http.StatusOK, tracksResponse{
		VideoID: videoID,
		Tracks:  tracks,
	})
	return nil
}
