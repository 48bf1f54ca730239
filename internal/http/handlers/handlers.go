package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/diagnosis/founder-playbook/internal/http/response"
	"github.com/diagnosis/founder-playbook/internal/platform/session"
	"github.com/diagnosis/founder-playbook/internal/service"
)

const maxJSONBody = 1 << 20

type Handlers struct {
	gate        service.GateService
	directory   service.DirectoryService
	content     service.ContentService
	admin       service.AdminService
	cookies     session.Cookies
	adminWindow time.Duration
	now         func() time.Time
}

func New(
	gate service.GateService,
	directory service.DirectoryService,
	content service.ContentService,
	admin service.AdminService,
	cookies session.Cookies,
	adminWindow time.Duration,
) *Handlers {
	return &Handlers{
		gate:        gate,
		directory:   directory,
		content:     content,
		admin:       admin,
		cookies:     cookies,
		adminWindow: adminWindow,
		now:         time.Now,
	}
}

// Root describes the API.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{
		"name":   "Founder Playbook API",
		"status": "running",
	})
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

type okMessage struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeOK(w http.ResponseWriter, message string) {
	response.WriteJSON(w, http.StatusOK, okMessage{Success: true, Message: message})
}

// decodeJSON reads a bounded JSON body. An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		if tooLarge(err) {
			response.PayloadTooLarge(w, "Request body too large")
			return false
		}
		response.BadRequest(w, "Invalid JSON format")
		return false
	}
	return true
}

func tooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}

// idParam parses a positive integer route parameter.
func idParam(w http.ResponseWriter, r *http.Request, name, notFound string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		response.NotFound(w, notFound)
		return 0, false
	}
	return id, true
}
