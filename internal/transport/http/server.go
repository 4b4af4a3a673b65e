// package http implements the HTTP transport layer for the service.
// It handles incoming requests, decodes them, calls the appropriate service
// methods, and encodes the responses.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/leadhub/lead-intake-service/internal/apperrors"
	"github.com/leadhub/lead-intake-service/internal/service"
	"github.com/leadhub/lead-intake-service/internal/validation"
	"github.com/leadhub/lead-intake-service/pkg/api"
	"github.com/leadhub/lead-intake-service/pkg/logger/sl"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// Server holds the dependencies for the HTTP server, including the logger
// and service interfaces.
type Server struct {
	log             *slog.Logger
	leadService     service.LeadService
	sourceService   service.SourceService
	operatorService service.OperatorService
	contactService  service.ContactService
}

// NewServer creates a new instance of the HTTP server.
func NewServer(
	log *slog.Logger,
	ls service.LeadService,
	ss service.SourceService,
	os service.OperatorService,
	cs service.ContactService,
) *Server {
	return &Server{
		log:             log,
		leadService:     ls,
		sourceService:   ss,
		operatorService: os,
		contactService:  cs,
	}
}

// Routes sets up the router with all middleware and API endpoints.
func (s *Server) Routes() http.Handler {
	mux := chi.NewRouter()

	mux.Use(s.requestID)
	mux.Use(s.logRequest)
	mux.Use(s.metricsMiddleware)

	mux.Handle("/metrics", promhttp.Handler())
	mux.Get("/health", s.getHealth)

	mux.Route("/api/v1", func(r chi.Router) {
		r.Route("/leads", func(r chi.Router) {
			r.Post("/", s.postLead)
			r.Post("/find-or-create", s.findOrCreateLead)
			r.Get("/", s.listLeads)
			r.Get("/{leadID}", s.getLead)
			r.Patch("/{leadID}", s.patchLead)
			r.Get("/{leadID}/contacts", s.getLeadContacts)
		})

		r.Route("/sources", func(r chi.Router) {
			r.Post("/", s.postSource)
			r.Get("/", s.listSources)
			r.Get("/{sourceID}", s.getSource)
			r.Patch("/{sourceID}", s.patchSource)
			r.Delete("/{sourceID}", s.deleteSource)
			r.Get("/{sourceID}/weights", s.getSourceWeights)
			r.Post("/{sourceID}/weights", s.postSourceWeight)
			r.Delete("/{sourceID}/weights/{operatorID}", s.deleteSourceWeight)
		})

		r.Route("/operators", func(r chi.Router) {
			r.Post("/", s.postOperator)
			r.Get("/", s.listOperators)
			r.Get("/{operatorID}", s.getOperator)
			r.Patch("/{operatorID}", s.patchOperator)
			r.Delete("/{operatorID}", s.deleteOperator)
		})

		r.Route("/contacts", func(r chi.Router) {
			r.Post("/", s.postContact)
			r.Get("/", s.listContacts)
			r.Get("/distribution", s.getDistribution)
			r.Get("/{contactID}", s.getContact)
			r.Patch("/{contactID}", s.patchContact)
		})
	})

	return mux
}

func (s *Server) getHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) postLead(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postLead"

	var req createLeadRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	lead, err := s.leadService.CreateLead(r.Context(), api.LeadCreate{
		ExternalID: req.ExternalID,
		Phone:      req.Phone,
		Email:      req.Email,
		Name:       req.Name,
	})
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, lead)
}

// findOrCreateLead resolves the lead behind the identifiers without writing
// a contact. Intended for importers that sync leads ahead of time.
func (s *Server) findOrCreateLead(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.findOrCreateLead"

	var req createLeadRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	lead, err := s.leadService.FindOrCreateLead(r.Context(), api.LeadCreate{
		ExternalID: req.ExternalID,
		Phone:      req.Phone,
		Email:      req.Email,
		Name:       req.Name,
	})
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, lead)
}

func (s *Server) listLeads(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listLeads"

	skip, limit := s.pagination(r)

	leads, err := s.leadService.ListLeads(r.Context(), skip, limit)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, leads)
}

func (s *Server) getLead(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getLead"

	leadID, err := s.pathID(r, "leadID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	lead, err := s.leadService.GetLead(r.Context(), leadID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, lead)
}

func (s *Server) patchLead(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.patchLead"

	leadID, err := s.pathID(r, "leadID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	var req updateLeadRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	lead, err := s.leadService.UpdateLead(r.Context(), leadID, api.LeadUpdate{
		ExternalID: req.ExternalID,
		Phone:      req.Phone,
		Email:      req.Email,
		Name:       req.Name,
	})
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, lead)
}

func (s *Server) getLeadContacts(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getLeadContacts"

	leadID, err := s.pathID(r, "leadID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	lead, err := s.leadService.GetLeadWithContacts(r.Context(), leadID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, lead)
}

func (s *Server) postSource(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postSource"

	var req createSourceRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	source, err := s.sourceService.CreateSource(r.Context(), api.SourceCreate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, source)
}

func (s *Server) listSources(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listSources"

	skip, limit := s.pagination(r)

	sources, err := s.sourceService.ListSources(r.Context(), skip, limit)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, sources)
}

func (s *Server) getSource(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getSource"

	sourceID, err := s.pathID(r, "sourceID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	source, err := s.sourceService.GetSource(r.Context(), sourceID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, source)
}

func (s *Server) patchSource(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.patchSource"

	sourceID, err := s.pathID(r, "sourceID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	var req updateSourceRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	source, err := s.sourceService.UpdateSource(r.Context(), sourceID, api.SourceUpdate{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, source)
}

func (s *Server) deleteSource(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.deleteSource"

	sourceID, err := s.pathID(r, "sourceID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	if err := s.sourceService.DeleteSource(r.Context(), sourceID); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respondMessage(w, http.StatusOK, "source deleted")
}

func (s *Server) getSourceWeights(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getSourceWeights"

	sourceID, err := s.pathID(r, "sourceID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	source, err := s.sourceService.GetSourceWithWeights(r.Context(), sourceID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, source)
}

func (s *Server) postSourceWeight(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postSourceWeight"

	sourceID, err := s.pathID(r, "sourceID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	var req setWeightRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	weight, err := s.sourceService.SetOperatorWeight(r.Context(), sourceID, api.WeightSet{
		OperatorID: req.OperatorID,
		Weight:     req.Weight,
	})
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, weight)
}

func (s *Server) deleteSourceWeight(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.deleteSourceWeight"

	sourceID, err := s.pathID(r, "sourceID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	operatorID, err := s.pathID(r, "operatorID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	if err := s.sourceService.RemoveOperatorWeight(r.Context(), sourceID, operatorID); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respondMessage(w, http.StatusOK, "weight deleted")
}

func (s *Server) postOperator(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postOperator"

	var req createOperatorRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	operator, err := s.operatorService.CreateOperator(r.Context(), api.OperatorCreate{
		Name:      req.Name,
		IsActive:  isActive,
		LoadLimit: req.LoadLimit,
	})
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, operator)
}

func (s *Server) listOperators(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listOperators"

	skip, limit := s.pagination(r)

	operators, err := s.operatorService.ListOperators(r.Context(), skip, limit)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, operators)
}

func (s *Server) getOperator(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getOperator"

	operatorID, err := s.pathID(r, "operatorID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	operator, err := s.operatorService.GetOperator(r.Context(), operatorID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, operator)
}

func (s *Server) patchOperator(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.patchOperator"

	operatorID, err := s.pathID(r, "operatorID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	var req updateOperatorRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	operator, err := s.operatorService.UpdateOperator(r.Context(), operatorID, api.OperatorUpdate{
		Name:      req.Name,
		IsActive:  req.IsActive,
		LoadLimit: req.LoadLimit,
	})
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, operator)
}

func (s *Server) deleteOperator(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.deleteOperator"

	operatorID, err := s.pathID(r, "operatorID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	if err := s.operatorService.DeleteOperator(r.Context(), operatorID); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respondMessage(w, http.StatusOK, "operator deleted")
}

func (s *Server) postContact(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.postContact"

	var req createContactRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	contact, err := s.contactService.CreateContact(r.Context(), api.ContactCreate{
		ExternalID: req.ExternalID,
		Phone:      req.Phone,
		Email:      req.Email,
		Name:       req.Name,
		SourceID:   req.SourceID,
		Message:    req.Message,
	})
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusCreated, contact)
}

func (s *Server) listContacts(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.listContacts"

	skip, limit := s.pagination(r)

	contacts, err := s.contactService.ListContacts(r.Context(), skip, limit)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, contacts)
}

func (s *Server) getDistribution(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getDistribution"

	dist, err := s.contactService.GetDistribution(r.Context())
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, dist)
}

func (s *Server) getContact(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.getContact"

	contactID, err := s.pathID(r, "contactID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	contact, err := s.contactService.GetContact(r.Context(), contactID)
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, contact)
}

func (s *Server) patchContact(w http.ResponseWriter, r *http.Request) {
	const op = "internal.transport.http.patchContact"

	contactID, err := s.pathID(r, "contactID")
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	var req updateContactRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	contact, err := s.contactService.UpdateContact(r.Context(), contactID, api.ContactUpdate{
		IsActive:   req.IsActive,
		Message:    req.Message,
		OperatorID: req.OperatorID,
	})
	if err != nil {
		s.handleServiceError(w, op, err)
		return
	}

	s.respond(w, http.StatusOK, contact)
}

// envelope is the uniform response body: success flags the outcome, data
// carries the payload and message carries human-readable status or errors.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// respond is a helper function to encode data to JSON and write it to the
// response. It centralizes setting the Content-Type header and writing the
// status code.
func (s *Server) respond(w http.ResponseWriter, code int, data interface{}) {
	s.write(w, code, envelope{Success: true, Data: data})
}

// respondMessage reports a successful operation that has no payload.
func (s *Server) respondMessage(w http.ResponseWriter, code int, message string) {
	s.write(w, code, envelope{Success: true, Message: message})
}

// respondError sends a failure envelope with the given message.
func (s *Server) respondError(w http.ResponseWriter, code int, message string) {
	s.write(w, code, envelope{Success: false, Message: message})
}

func (s *Server) write(w http.ResponseWriter, code int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.log.Error("failed to encode response", sl.Err(err))
	}
}

// decodeAndValidate is a helper that deserializes a JSON request body into a
// struct and then runs validation checks on it.
func (s *Server) decodeAndValidate(r *http.Request, v interface{}) error {
	if err := s.decode(r.Body, v); err != nil {
		return err
	}

	if err := validation.ValidateStruct(v); err != nil {
		return err
	}

	return nil
}

// decode is a helper function to decode a JSON request body.
func (s *Server) decode(body io.ReadCloser, v interface{}) error {
	defer body.Close()

	if err := json.NewDecoder(body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", apperrors.ErrInvalidRequest, err)
	}

	return nil
}

// pathID parses a numeric path parameter. A malformed id is a client error,
// reported the same way as a failed validation.
func (s *Server) pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("%w: invalid path parameter '%s'", apperrors.ErrInvalidRequest, name)
	}

	return id, nil
}

// pagination reads skip/limit query parameters, falling back to sane
// defaults and capping the page size.
func (s *Server) pagination(r *http.Request) (skip, limit uint64) {
	limit = defaultPageLimit

	if v := r.URL.Query().Get("skip"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil {
			skip = parsed
		}
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.ParseUint(v, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	return skip, limit
}

// handleServiceError provides centralized error handling for all HTTP
// handlers. It logs the internal error and maps it to a user-friendly HTTP
// response.
func (s *Server) handleServiceError(w http.ResponseWriter, op string, err error) {
	log := s.log.With(slog.String("op", op))
	log.Error("service error occurred", sl.Err(err))

	var (
		validationErr *validation.ValidationError
		notFoundErr   *apperrors.NotFoundError
		uniqueErr     *apperrors.UniqueViolationError
	)

	switch {
	case errors.As(err, &validationErr):
		s.respondError(w, http.StatusUnprocessableEntity, validationErr.Error())
	case errors.Is(err, apperrors.ErrInvalidRequest):
		s.respondError(w, http.StatusUnprocessableEntity, "invalid request")
	case errors.As(err, &notFoundErr):
		s.respondError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.Is(err, apperrors.ErrNotFound):
		s.respondError(w, http.StatusNotFound, "resource not found")
	case errors.As(err, &uniqueErr):
		s.respondError(w, http.StatusBadRequest, uniqueErr.Error())
	case errors.Is(err, apperrors.ErrConflict):
		s.respondError(w, http.StatusBadRequest, "data integrity violation")
	case errors.Is(err, apperrors.ErrStoreUnavailable):
		s.respondError(w, http.StatusServiceUnavailable, "storage is unavailable")
	default:
		s.respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
