// internal/api/http/job_handler.go
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"job-board/internal/domain"
	"job-board/internal/metrics"
	"job-board/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxBodyBytes = 1 << 20

// JobHandler handles the HTTP requests of the /jobs resource.
type JobHandler struct {
	service  *usecase.JobService
	logger   *slog.Logger
	validate *validator.Validate
	tracer   trace.Tracer
}

// NewJobHandler creates a new JobHandler and initializes the validator.
func NewJobHandler(service *usecase.JobService, logger *slog.Logger) *JobHandler {
	validate := validator.New()

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation("jobtype", func(fl validator.FieldLevel) bool {
		return domain.JobType(fl.Field().String()).Valid()
	})

	_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseDate(fl.Field().String())
		return err == nil
	})

	return &JobHandler{
		service:  service,
		logger:   logger.With("component", "job-handler"),
		validate: validate,
		tracer:   otel.Tracer("job-board-api"),
	}
}

// A helper struct to capture the status code
type instrumentedResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *instrumentedResponseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

// RegisterRoutes registers the job routes on r.
func (h *JobHandler) RegisterRoutes(r *mux.Router) {
	jobs := r.PathPrefix("/jobs").Subrouter()
	jobs.Use(h.instrument)

	jobs.HandleFunc("", h.handleListJobs).Methods(http.MethodGet)
	jobs.HandleFunc("", h.handleCreateJob).Methods(http.MethodPost)
	jobs.HandleFunc("/stats", h.handleStats).Methods(http.MethodGet)
	jobs.HandleFunc("/{id}", h.handleGetJob).Methods(http.MethodGet)
	jobs.HandleFunc("/{id}", h.handleUpdateJob).Methods(http.MethodPatch)
	jobs.HandleFunc("/{id}", h.handleDeleteJob).Methods(http.MethodDelete)
}

// instrument wraps every matched route in a server span and counts the
// response by route template, method and status.
func (h *JobHandler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tmpl, err := route.GetPathTemplate(); err == nil {
				path = tmpl
			}
		}

		ctx, span := h.tracer.Start(r.Context(), "HTTP "+r.Method+" "+path, trace.WithAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.Path),
		))
		defer span.End()

		iw := &instrumentedResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(iw, r.WithContext(ctx))

		metrics.HttpRequestsTotal.WithLabelValues(path, r.Method, strconv.Itoa(iw.statusCode)).Inc()

		span.SetAttributes(attribute.Int("http.status_code", iw.statusCode))
		if iw.statusCode >= 500 {
			span.SetStatus(codes.Error, "Server Error")
		}
	})
}

type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps a service error onto a status code. Validation failures
// become 400, unknown ids 404 and everything else 500 without internals.
func (h *JobHandler) writeError(w http.ResponseWriter, span trace.Span, err error) {
	span.RecordError(err)

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		details := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			details = append(details, f.String())
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Details: details})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Details: []string{err.Error()}})
	case errors.Is(err, domain.ErrJobNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Job not found"})
	default:
		span.SetStatus(codes.Error, "request failed")
		h.logger.Error("error handling job request", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

// decode reads a JSON body into dst and runs the struct validation. It writes
// the 400 response itself and reports whether the handler may continue.
func (h *JobHandler) decode(w http.ResponseWriter, r *http.Request, span trace.Span, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		span.SetStatus(codes.Error, "Failed to decode request body")
		span.RecordError(err)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body", Details: []string{err.Error()}})
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		span.SetStatus(codes.Error, "Validation failed")
		span.RecordError(err)
		var validationErrors []string
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				validationErrors = append(validationErrors,
					"Field '"+fe.Field()+"' failed on the '"+fe.Tag()+"' tag.",
				)
			}
		} else {
			validationErrors = append(validationErrors, err.Error())
		}
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Validation failed", Details: validationErrors})
		return false
	}
	return true
}

func (h *JobHandler) handleListJobs(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "handler.ListJobs")
	defer span.End()

	criteria, err := parseListQuery(r.URL.Query())
	if err != nil {
		h.writeError(w, span, err)
		return
	}

	page, err := h.service.List(ctx, criteria)
	if err != nil {
		h.writeError(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (h *JobHandler) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "handler.CreateJob")
	defer span.End()

	var req CreateJobRequest
	if !h.decode(w, r, span, &req) {
		return
	}
	job, err := req.ToDomainJob()
	if err != nil {
		h.writeError(w, span, err)
		return
	}

	created, err := h.service.Create(ctx, job)
	if err != nil {
		h.writeError(w, span, err)
		return
	}
	span.SetAttributes(attribute.String("job.id", created.ID))
	writeJSON(w, http.StatusCreated, created)
}

func (h *JobHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "handler.Stats")
	defer span.End()

	stats, err := h.service.Stats(ctx)
	if err != nil {
		h.writeError(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *JobHandler) handleGetJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "handler.GetJob")
	defer span.End()
	id := mux.Vars(r)["id"]
	span.SetAttributes(attribute.String("job.id", id))

	job, err := h.service.Get(ctx, id)
	if err != nil {
		h.writeError(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *JobHandler) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "handler.UpdateJob")
	defer span.End()
	id := mux.Vars(r)["id"]
	span.SetAttributes(attribute.String("job.id", id))

	var req UpdateJobRequest
	if !h.decode(w, r, span, &req) {
		return
	}
	patch, err := req.ToDomainPatch()
	if err != nil {
		h.writeError(w, span, err)
		return
	}

	job, err := h.service.Update(ctx, id, patch)
	if err != nil {
		h.writeError(w, span, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (h *JobHandler) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "handler.DeleteJob")
	defer span.End()
	id := mux.Vars(r)["id"]
	span.SetAttributes(attribute.String("job.id", id))

	if err := h.service.Delete(ctx, id); err != nil {
		h.writeError(w, span, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
