package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/tendant/media-catalog/pkg/mediacatalog"
)

// Headroom over the largest class ceiling so multipart framing never trips
// the body limit before the policy check does.
const multipartOverhead = 1 << 20

// CatalogHandler handles HTTP requests for one asset class's catalog.
type CatalogHandler struct {
	service mediacatalog.Service
	class   mediacatalog.AssetClass
}

// NewCatalogHandler creates a handler bound to the given asset class.
func NewCatalogHandler(service mediacatalog.Service, class mediacatalog.AssetClass) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		class:   class,
	}
}

// Routes returns the routes for the asset class
func (h *CatalogHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ListRecords)
	r.Post("/", h.CreateRecord)
	r.Delete("/{id}", h.DeleteRecord)

	return r
}

// createRecordBody is the JSON request body for url-provenance creates.
type createRecordBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Provenance  string `json:"provenance"`
	MediaType   string `json:"type,omitempty"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	OccurredAt  string `json:"occurred_at,omitempty"`
}

// deleteResponse mirrors the {"success":true} shape clients expect.
type deleteResponse struct {
	Success bool `json:"success"`
}

// ListRecords returns every record for the class, newest first.
func (h *CatalogHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.ListRecords(r.Context(), h.class)
	if err != nil {
		slog.Error("Failed to list records", "class", h.class, "error", err)
		writeError(w, r, err)
		return
	}
	if records == nil {
		records = []*mediacatalog.CatalogRecord{}
	}
	render.JSON(w, r, records)
}

// CreateRecord creates a record from a multipart upload (file provenance) or
// a JSON body (url provenance).
func (h *CatalogHandler) CreateRecord(w http.ResponseWriter, r *http.Request) {
	var (
		req mediacatalog.CreateRecordRequest
		err error
	)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		req, err = h.parseMultipart(w, r)
	} else {
		req, err = h.parseJSON(r)
	}
	if err != nil {
		slog.Error("Failed to parse create request", "class", h.class, "error", err)
		writeError(w, r, err)
		return
	}

	record, err := h.service.CreateRecord(r.Context(), req)
	if err != nil {
		slog.Error("Failed to create record", "class", h.class, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Record created", "class", h.class, "id", record.ID.String(), "provenance", record.Provenance)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, record)
}

// DeleteRecord removes a record. Deleting an unknown id still succeeds.
func (h *CatalogHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		slog.Error("Invalid record ID", "id", idStr, "error", err)
		http.Error(w, "Invalid record ID", http.StatusBadRequest)
		return
	}

	if err := h.service.DeleteRecord(r.Context(), h.class, id); err != nil {
		slog.Error("Failed to delete record", "class", h.class, "id", idStr, "error", err)
		writeError(w, r, err)
		return
	}

	slog.Info("Record deleted", "class", h.class, "id", idStr)
	render.JSON(w, r, deleteResponse{Success: true})
}

func (h *CatalogHandler) parseMultipart(w http.ResponseWriter, r *http.Request) (mediacatalog.CreateRecordRequest, error) {
	// Bound the body at transport level; the policy check on the actual file
	// size is still authoritative.
	limit := certificateBodyLimit
	if h.class == mediacatalog.ClassGallery {
		limit = galleryBodyLimit
	}
	r.Body = http.MaxBytesReader(w, r.Body, int64(limit))

	if err := r.ParseMultipartForm(4 << 20); err != nil {
		return mediacatalog.CreateRecordRequest{}, &mediacatalog.ValidationError{
			Reason: mediacatalog.ReasonTooLarge,
			Field:  "file",
			Detail: err.Error(),
		}
	}

	req := mediacatalog.CreateRecordRequest{
		Class:       h.class,
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Provenance:  mediacatalog.Provenance(formValue(r, "provenance", "source_type")),
		MediaType:   mediacatalog.MediaType(r.FormValue("type")),
		OccurredAt:  parseDate(formValue(r, "occurred_at", "date")),
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		contentType := header.Header.Get("Content-Type")
		if declared := r.FormValue("file_type"); contentType == "" && declared != "" {
			contentType = declared
		}
		req.Upload = &mediacatalog.UploadSource{
			Filename:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Reader:      file,
		}
	} else if !errors.Is(err, http.ErrMissingFile) {
		return mediacatalog.CreateRecordRequest{}, &mediacatalog.ValidationError{
			Reason: mediacatalog.ReasonMissingField,
			Field:  "file",
			Detail: err.Error(),
		}
	}

	if url := r.FormValue("url"); url != "" {
		req.Link = &mediacatalog.LinkSource{
			URL:         url,
			ContentType: r.FormValue("file_type"),
		}
	}

	return req, nil
}

func (h *CatalogHandler) parseJSON(r *http.Request) (mediacatalog.CreateRecordRequest, error) {
	var body createRecordBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return mediacatalog.CreateRecordRequest{}, &mediacatalog.ValidationError{
			Reason: mediacatalog.ReasonMissingField,
			Field:  "body",
			Detail: err.Error(),
		}
	}

	req := mediacatalog.CreateRecordRequest{
		Class:       h.class,
		Title:       body.Title,
		Description: body.Description,
		Provenance:  mediacatalog.Provenance(body.Provenance),
		MediaType:   mediacatalog.MediaType(body.MediaType),
		OccurredAt:  parseDate(body.OccurredAt),
	}
	if body.URL != "" {
		req.Link = &mediacatalog.LinkSource{
			URL:         body.URL,
			ContentType: body.ContentType,
		}
	}

	return req, nil
}

const (
	certificateBodyLimit = 10<<20 + multipartOverhead
	galleryBodyLimit     = 50<<20 + multipartOverhead
)

// formValue returns the first non-empty value among the given field names.
func formValue(r *http.Request, names ...string) string {
	for _, name := range names {
		if v := r.FormValue(name); v != "" {
			return v
		}
	}
	return ""
}

// parseDate accepts RFC 3339 timestamps or plain dates; anything else falls
// back to the zero value (the service stamps server time).
func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t
	}
	return time.Time{}
}

// writeError maps the error taxonomy onto HTTP statuses: validation failures
// are 400s with the reason, everything else is a 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *mediacatalog.ValidationError
	if errors.As(err, &verr) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{
			"error":  verr.Error(),
			"reason": string(verr.Reason),
		})
		return
	}

	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, map[string]string{"error": err.Error()})
}
