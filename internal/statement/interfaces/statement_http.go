package interfaces

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"owner-portal/internal/audit"
	"owner-portal/internal/auth"
	portfolio "owner-portal/internal/portfolio/domain"
	"owner-portal/internal/statement/application"
	statement "owner-portal/internal/statement/domain"
	"owner-portal/internal/statement/infrastructure/storage"
)

// StatementHandler serves statement generation and artifact downloads under
// /api/v1/properties/{id}/statements/.
type StatementHandler struct {
	service      *application.Service
	store        *storage.Store
	ownerChecker auth.PropertyOwnerChecker
	auditLogger  audit.Logger
	logger       *log.Logger
}

// NewStatementHandler constructs a handler.
func NewStatementHandler(service *application.Service, store *storage.Store, ownerChecker auth.PropertyOwnerChecker, auditLogger audit.Logger, logger *log.Logger) (*StatementHandler, error) {
	if service == nil {
		return nil, errors.New("statement handler: nil service")
	}
	if store == nil {
		return nil, errors.New("statement handler: nil store")
	}
	return &StatementHandler{
		service:      service,
		store:        store,
		ownerChecker: ownerChecker,
		auditLogger:  auditLogger,
		logger:       logger,
	}, nil
}

// ServeHTTP routes /api/v1/properties/{id}/statements/...
func (h *StatementHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/properties/")
	parts := strings.Split(rest, "/")
	if len(parts) < 2 || parts[1] != "statements" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	propertyID := parts[0]
	if propertyID == "" {
		http.Error(w, "property id required", http.StatusBadRequest)
		return
	}

	if accountID := auth.AccountIDFromContext(r.Context()); accountID != "" && h.ownerChecker != nil {
		if err := h.ownerChecker.EnsurePropertyOwner(r.Context(), accountID, propertyID); err != nil {
			respondOwnerError(w, err)
			return
		}
	}

	switch {
	case len(parts) == 3 && parts[2] == "generate" && r.Method == http.MethodPost:
		h.handleGenerate(w, r, propertyID)
	case len(parts) == 5 && r.Method == http.MethodGet:
		h.handleDownload(w, r, propertyID, parts[2], parts[3], parts[4])
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (h *StatementHandler) handleGenerate(w http.ResponseWriter, r *http.Request, propertyID string) {
	var req struct {
		Year         int    `json:"year"`
		Month        int    `json:"month"`
		PropertyName string `json:"propertyName"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if req.Year == 0 || req.Month == 0 {
		http.Error(w, "year and month are required", http.StatusBadRequest)
		return
	}
	period, err := statement.NewPeriod(req.Year, req.Month)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.service.Generate(r.Context(), propertyID, req.PropertyName, period)
	if err != nil {
		if errors.Is(err, portfolio.ErrNoCredential) {
			http.Error(w, "no credential configured for property", http.StatusBadRequest)
			return
		}
		if h.logger != nil {
			h.logger.Printf("event=statement_generate_failed property_id=%s period=%s error=%v", propertyID, period, err)
		}
		http.Error(w, "statement generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"message":      "statement generated",
		"pdfFilename":  result.PDFFilename,
		"csvFilename":  result.CSVFilename,
		"xlsxFilename": result.XLSXFilename,
	})
	h.logAudit(r, propertyID, "statement.generate", map[string]any{
		"period": period.String(),
	})
}

func (h *StatementHandler) handleDownload(w http.ResponseWriter, r *http.Request, propertyID, yearPart, monthPart, filePart string) {
	period, err := parsePeriodParts(yearPart, monthPart)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	format, ok := strings.CutPrefix(filePart, "download.")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	contentType := ""
	switch format {
	case "pdf":
		contentType = "application/pdf"
	case "csv":
		contentType = "text/csv"
	case "xlsx":
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "xml":
		contentType = "application/xml"
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}

	filename := storage.StatementFilename(propertyID, period, format)
	if format == "xml" {
		filename = storage.TaxFileFilename(propertyID, period)
	}
	data, err := h.store.Open(filename)
	if err != nil {
		http.Error(w, "artifact not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	_, _ = w.Write(data)
	h.logAudit(r, propertyID, "statement.download", map[string]any{
		"period": period.String(),
		"format": format,
	})
}

func parsePeriodParts(yearPart, monthPart string) (statement.Period, error) {
	year, err := strconv.Atoi(yearPart)
	if err != nil {
		return statement.Period{}, errors.New("invalid year")
	}
	month, err := strconv.Atoi(monthPart)
	if err != nil {
		return statement.Period{}, errors.New("invalid month")
	}
	return statement.NewPeriod(year, month)
}

func (h *StatementHandler) logAudit(r *http.Request, propertyID, action string, meta map[string]any) {
	if h.auditLogger == nil {
		return
	}
	accountID := auth.AccountIDFromContext(r.Context())
	if accountID == "" {
		return
	}
	payload, _ := json.Marshal(meta)
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		AccountID:    accountID,
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "statement",
		PropertyID:   propertyID,
		Metadata:     payload,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func respondOwnerError(w http.ResponseWriter, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, auth.ErrOwnerMismatch) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if errors.Is(err, auth.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	http.Error(w, "ownership check failed", http.StatusInternalServerError)
}
