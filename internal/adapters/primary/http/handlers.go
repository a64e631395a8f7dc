package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/fredcamaral/slidegen/internal/adapters/secondary/export"
	"github.com/fredcamaral/slidegen/internal/domain/entities"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string    `json:"error"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// GenerateRequest is the body of a generation request
type GenerateRequest struct {
	Text string `json:"text"`
}

// UpdateRequest is the body of a deck edit
type UpdateRequest struct {
	ID         string         `json:"id"`
	TemplateID string         `json:"template_id"`
	Slides     []SlideRequest `json:"slides"`
}

// SlideRequest is an edited slide; points win over content when both are sent
type SlideRequest struct {
	ID             string   `json:"id"`
	Order          *int     `json:"order"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Points         []string `json:"points"`
	Notes          string   `json:"notes"`
	VisualKeywords []string `json:"visual_keywords"`
	LocalImagePath *string  `json:"local_image_path"`
}

// PresentationResponse is the deck JSON returned by the API
type PresentationResponse struct {
	ID         string          `json:"id"`
	InputText  string          `json:"input_text"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	TemplateID string          `json:"template_id"`
	Slides     []SlideResponse `json:"slides"`
}

// SlideResponse represents a single slide in the API response
type SlideResponse struct {
	ID             string   `json:"id"`
	Order          int      `json:"order"`
	Title          string   `json:"title"`
	Content        string   `json:"content"`
	Points         []string `json:"points"`
	Notes          string   `json:"notes"`
	VisualKeywords []string `json:"visual_keywords"`
	LocalImagePath *string  `json:"local_image_path"`
}

// TemplateResponse is one entry of the template list
type TemplateResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status  string    `json:"status"`
	Service string    `json:"service"`
	Time    time.Time `json:"time"`
}

// handleHealth reports liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Service: "slidegen",
		Time:    time.Now(),
	})
}

// handleStats reports pipeline and server counters
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.metrics.Status())
}

// handleGenerate runs the pipeline on the posted text and stores the deck
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, err, http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		s.handleError(w, entities.ErrInvalidInput, http.StatusBadRequest)
		return
	}

	presentation, err := s.presentations.Create(r.Context(), req.Text)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toPresentationResponse(presentation))
}

// handleList returns recent decks
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.handleError(w, fmt.Errorf("invalid limit %q", raw), http.StatusBadRequest)
			return
		}
		limit = n
	}

	summaries, err := s.presentations.List(r.Context(), limit)
	if err != nil {
		s.handleServiceError(w, err)
		return
	}
	if summaries == nil {
		summaries = []entities.PresentationSummary{}
	}

	s.writeJSON(w, http.StatusOK, summaries)
}

// handleGet returns one deck
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	presentation, err := s.presentations.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toPresentationResponse(presentation))
}

// handleUpdate replaces the slides and template of a deck
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.handleError(w, err, http.StatusBadRequest)
		return
	}

	presentation, err := s.presentations.Update(r.Context(), mux.Vars(r)["id"], req.toUpdate())
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, toPresentationResponse(presentation))
}

// handleDelete removes a deck
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.presentations.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleDownload renders a deck and streams the file as an attachment
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = s.defaultFormat
	}

	file, err := s.presentations.Export(r.Context(), mux.Vars(r)["id"], strings.ToLower(format))
	if err != nil {
		s.handleServiceError(w, err)
		return
	}

	f, err := os.Open(file.Path)
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		s.handleError(w, err, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	http.ServeContent(w, r, file.Name, info.ModTime(), f)
}

// handleTemplates lists the registered templates
func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	templates := s.presentations.Templates()
	response := make([]TemplateResponse, 0, len(templates))
	for _, t := range templates {
		response = append(response, TemplateResponse{ID: t.ID, Name: t.Name})
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleServiceError maps domain errors to status codes
func (s *Server) handleServiceError(w http.ResponseWriter, err error) {
	var (
		requestErr *entities.RequestError
		exportErr  *export.ExportError
	)

	switch {
	case errors.Is(err, entities.ErrInvalidInput), errors.Is(err, entities.ErrIDMismatch):
		s.handleError(w, err, http.StatusBadRequest)
	case errors.Is(err, entities.ErrPresentationNotFound):
		s.handleError(w, err, http.StatusNotFound)
	case errors.Is(err, entities.ErrNoSlides):
		s.handleError(w, err, http.StatusConflict)
	case errors.Is(err, entities.ErrEmptyGeneration):
		s.handleError(w, err, http.StatusUnprocessableEntity)
	case errors.As(err, &requestErr):
		s.handleError(w, err, http.StatusBadGateway)
	case errors.As(err, &exportErr) && exportErr.Type == export.ErrorTypeValidation:
		s.handleError(w, err, http.StatusBadRequest)
	case errors.As(err, &exportErr) && exportErr.Type == export.ErrorTypeTimeout:
		s.handleError(w, err, http.StatusGatewayTimeout)
	default:
		s.handleError(w, err, http.StatusInternalServerError)
	}
}

// handleError handles error responses with sanitized messages
func (s *Server) handleError(w http.ResponseWriter, err error, status int) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("HTTP error (status %d): %v", status, err)
	} else {
		s.logger.Debug("HTTP error (status %d): %v", status, err)
	}

	writeError(w, status, sanitizedMessage(status))
}

// sanitizedMessage is the client-facing text for a status; causes stay in the log
func sanitizedMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "Invalid request"
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusConflict:
		return "Presentation has no slides to export"
	case http.StatusUnprocessableEntity:
		return "No slides could be generated, please refine your input"
	case http.StatusTooManyRequests:
		return "Too many requests"
	case http.StatusBadGateway:
		return "The language model request failed"
	case http.StatusGatewayTimeout:
		return "The request timed out"
	case http.StatusInternalServerError:
		return "Internal server error"
	default:
		return "An error occurred"
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Time:    time.Now(),
	})
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response: %v", err)
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return fmt.Errorf("decoding request body: %w", err)
	}
	return nil
}

func toPresentationResponse(p *entities.Presentation) PresentationResponse {
	response := PresentationResponse{
		ID:         p.ID,
		InputText:  p.InputText,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
		TemplateID: p.TemplateID,
		Slides:     make([]SlideResponse, 0, len(p.Slides)),
	}

	for i := range p.Slides {
		slide := &p.Slides[i]
		points := slide.Points
		if points == nil {
			points = []string{}
		}
		keywords := slide.VisualKeywords
		if keywords == nil {
			keywords = []string{}
		}
		response.Slides = append(response.Slides, SlideResponse{
			ID:             slide.ID,
			Order:          slide.Order,
			Title:          slide.Title,
			Content:        slide.Content(),
			Points:         points,
			Notes:          slide.Notes,
			VisualKeywords: keywords,
			LocalImagePath: slide.LocalImagePath,
		})
	}

	return response
}

func (req UpdateRequest) toUpdate() entities.PresentationUpdate {
	update := entities.PresentationUpdate{
		ID:         req.ID,
		TemplateID: req.TemplateID,
		Slides:     make([]entities.Slide, 0, len(req.Slides)),
	}

	for i, sr := range req.Slides {
		slide := entities.Slide{
			ID:             sr.ID,
			Order:          i,
			Title:          sr.Title,
			Notes:          sr.Notes,
			VisualKeywords: sr.VisualKeywords,
			LocalImagePath: sr.LocalImagePath,
		}
		if sr.Order != nil {
			slide.Order = *sr.Order
		}
		if sr.Points != nil {
			slide.Points = sr.Points
		} else {
			slide.SetContent(sr.Content)
		}
		update.Slides = append(update.Slides, slide)
	}

	return update
}
