// Biblioteca - Book Genre Classification and Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/biblioteca

package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/tomtom215/biblioteca/internal/models"
	"github.com/tomtom215/biblioteca/internal/ocr"
	"github.com/tomtom215/biblioteca/internal/pipeline"
	"github.com/tomtom215/biblioteca/internal/transcribe"
)

// Multipart field names for uploads.
const (
	ImageField = "image"
	AudioField = "audio"
)

// maxMultipartMemory is the part of an upload kept in memory while parsing;
// the rest spills to temporary files.
const maxMultipartMemory = 8 << 20

// RecommendText handles POST /api/v1/recommendations/text.
func (h *Handler) RecommendText(w http.ResponseWriter, r *http.Request) {
	var req models.TextRecommendationRequest
	if status, apiErr := decodeJSONBody(w, r, &req); apiErr != nil {
		respondAPIError(w, r, status, apiErr, nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	rec, err := h.pipeline.Process(r.Context(), req.Text)
	if err != nil {
		h.respondPipelineError(w, r, rec, err)
		return
	}
	h.respondRecommendation(w, r, rec)
}

// RecommendImage handles POST /api/v1/recommendations/image with a
// multipart "image" field holding a JPEG or PNG photo.
func (h *Handler) RecommendImage(w http.ResponseWriter, r *http.Request) {
	h.recommendUpload(w, r, ImageField, pipeline.StageOCR, h.pipeline.OCREnabled(), h.pipeline.ProcessImage)
}

// RecommendAudio handles POST /api/v1/recommendations/audio with a
// multipart "audio" field holding a WAV, MP3 or M4A clip.
func (h *Handler) RecommendAudio(w http.ResponseWriter, r *http.Request) {
	h.recommendUpload(w, r, AudioField, pipeline.StageSpeech, h.pipeline.SpeechEnabled(), h.pipeline.ProcessAudio)
}

type processFunc func(ctx context.Context, data []byte) (pipeline.Recommendation, error)

func (h *Handler) recommendUpload(w http.ResponseWriter, r *http.Request, field, stage string, enabled bool, process processFunc) {
	if !enabled {
		h.respondPipelineError(w, r, pipeline.Recommendation{}, &pipeline.AdapterError{Stage: stage, Err: pipeline.ErrAdapterDisabled})
		return
	}

	data, status, apiErr := h.readUpload(w, r, field)
	if apiErr != nil {
		respondAPIError(w, r, status, apiErr, nil)
		return
	}

	rec, err := process(r.Context(), data)
	if err != nil {
		h.respondPipelineError(w, r, rec, err)
		return
	}
	h.respondRecommendation(w, r, rec)
}

// readUpload reads one multipart file field, enforcing the upload cap.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, int, *models.APIError) {
	tooLarge := &models.APIError{
		Code:    ErrCodePayloadTooLarge,
		Message: fmt.Sprintf("Upload exceeds %d bytes", h.maxUploadBytes),
	}
	if r.ContentLength > h.maxUploadBytes {
		return nil, http.StatusRequestEntityTooLarge, tooLarge
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(min(h.maxUploadBytes, maxMultipartMemory)); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, http.StatusRequestEntityTooLarge, tooLarge
		}
		return nil, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeBadRequest,
			Message: "Expected a multipart/form-data upload",
		}
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, http.StatusBadRequest, &models.APIError{
			Code:    ErrCodeMissingFile,
			Message: fmt.Sprintf("Missing %q file field", field),
		}
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, http.StatusBadRequest, &models.APIError{Code: ErrCodeBadRequest, Message: "Failed to read uploaded file"}
	}
	if len(data) == 0 {
		return nil, http.StatusBadRequest, &models.APIError{Code: ErrCodeMissingFile, Message: "Uploaded file is empty"}
	}
	return data, 0, nil
}

func (h *Handler) respondRecommendation(w http.ResponseWriter, r *http.Request, rec pipeline.Recommendation) {
	meta := newMetadata(r)
	meta.QueryTimeMS = rec.Duration.Milliseconds()

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.RecommendationResponse{
			Query:                rec.Query,
			Genre:                rec.Genre.String(),
			Recommendation:       rec.Text,
			Source:               string(rec.Source),
			SourceText:           rec.SourceText,
			ClassifierDegraded:   rec.ClassifierDegraded,
			RecommendationFailed: rec.RecommendationFailed,
			FailureKind:          string(rec.FailureKind),
		},
		Metadata: meta,
	})
}

// stageNames are used in messages about a disabled or failing adapter.
var stageNames = map[string]string{
	pipeline.StageOCR:    "Image text recognition",
	pipeline.StageSpeech: "Audio transcription",
}

// respondPipelineError maps pipeline errors onto HTTP statuses:
//
//	validation            422 QUERY_REJECTED (Spanish message)
//	no text in image      422 NO_TEXT_DETECTED (Spanish message)
//	unsupported upload    415 UNSUPPORTED_MEDIA_TYPE
//	adapter disabled      503 ADAPTER_DISABLED
//	adapter failure       502 ADAPTER_FAILED
func (h *Handler) respondPipelineError(w http.ResponseWriter, r *http.Request, rec pipeline.Recommendation, err error) {
	var verr *pipeline.ValidationError
	var aerr *pipeline.AdapterError

	switch {
	case errors.As(err, &verr):
		details := map[string]interface{}{"reason": string(verr.Reason)}
		if rec.SourceText != "" {
			details["source_text"] = rec.SourceText
		}
		respondAPIError(w, r, http.StatusUnprocessableEntity, &models.APIError{
			Code:    ErrCodeQueryRejected,
			Message: verr.Message(),
			Details: details,
		}, err)

	case errors.Is(err, ocr.ErrNoText):
		respondError(w, r, http.StatusUnprocessableEntity, ErrCodeNoTextDetected, ocr.NoTextMessage, err)

	case errors.Is(err, ocr.ErrUnsupportedMedia):
		respondError(w, r, http.StatusUnsupportedMediaType, ErrCodeUnsupportedMedia, "Image must be JPEG or PNG", err)

	case errors.Is(err, transcribe.ErrUnsupportedMedia):
		respondError(w, r, http.StatusUnsupportedMediaType, ErrCodeUnsupportedMedia, "Audio must be WAV, MP3 or M4A", err)

	case errors.As(err, &aerr):
		name := stageNames[aerr.Stage]
		if errors.Is(err, pipeline.ErrAdapterDisabled) {
			respondError(w, r, http.StatusServiceUnavailable, ErrCodeAdapterDisabled, name+" is not enabled on this server", err)
			return
		}
		respondError(w, r, http.StatusBadGateway, ErrCodeAdapterFailed, name+" failed", err)

	default:
		respondError(w, r, http.StatusInternalServerError, ErrCodeInternalError, "Internal server error", err)
	}
}
