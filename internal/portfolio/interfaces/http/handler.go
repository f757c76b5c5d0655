package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"owner-portal/internal/audit"
	"owner-portal/internal/auth"
	portfolio "owner-portal/internal/portfolio/domain"
)

// PropertyStore persists properties.
type PropertyStore interface {
	Create(ctx context.Context, p *portfolio.Property) error
	Get(ctx context.Context, id string) (*portfolio.Property, error)
	ListByOwner(ctx context.Context, ownerID string) ([]portfolio.Property, error)
	Update(ctx context.Context, p *portfolio.Property) error
}

// Handler serves property CRUD under /api/v1/properties. Statement subpaths
// are delegated to the statements handler.
type Handler struct {
	store       PropertyStore
	statements  http.Handler
	auditLogger audit.Logger
}

// NewHandler constructs a handler.
func NewHandler(store PropertyStore, statements http.Handler, auditLogger audit.Logger) (*Handler, error) {
	if store == nil {
		return nil, errors.New("property handler: nil store")
	}
	return &Handler{store: store, statements: statements, auditLogger: auditLogger}, nil
}

type propertyPayload struct {
	ID            string `json:"id"`
	OwnerID       string `json:"ownerId"`
	Name          string `json:"name"`
	Address       string `json:"address"`
	OwnerEmail    string `json:"ownerEmail"`
	BillingAPIKey string `json:"billingApiKey,omitempty"`
}

// ServeHTTP routes property requests.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	if path == "/api/v1/properties" {
		switch r.Method {
		case http.MethodGet:
			h.handleList(w, r)
		case http.MethodPost:
			h.handleCreate(w, r)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}
	if strings.HasPrefix(path, "/api/v1/properties/") {
		rest := strings.TrimPrefix(path, "/api/v1/properties/")
		parts := strings.Split(rest, "/")
		if len(parts) >= 2 && parts[1] == "statements" {
			if h.statements == nil {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			h.statements.ServeHTTP(w, r)
			return
		}
		if len(parts) == 1 && parts[0] != "" {
			switch r.Method {
			case http.MethodGet:
				h.handleGet(w, r, parts[0])
			case http.MethodPut:
				h.handleUpdate(w, r, parts[0])
			default:
				w.WriteHeader(http.StatusMethodNotAllowed)
			}
			return
		}
	}
	w.WriteHeader(http.StatusNotFound)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	// Owners only ever see their own portfolio.
	if auth.RoleFromContext(r.Context()) == auth.RoleOwner {
		ownerID = auth.AccountIDFromContext(r.Context())
	}
	properties, err := h.store.ListByOwner(r.Context(), ownerID)
	if err != nil {
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	payload := make([]propertyPayload, 0, len(properties))
	for _, p := range properties {
		payload = append(payload, toPayload(p, false))
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(payload)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req propertyPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	property := fromPayload(req)
	if err := property.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.store.Create(r.Context(), &property); err != nil {
		http.Error(w, "create failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(toPayload(property, false))
	h.logAudit(r, property.ID, "property.create")
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request, id string) {
	property, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "get failed", http.StatusInternalServerError)
		return
	}
	if auth.RoleFromContext(r.Context()) == auth.RoleOwner &&
		property.OwnerID != auth.AccountIDFromContext(r.Context()) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toPayload(*property, false))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request, id string) {
	var req propertyPayload
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	existing, err := h.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, portfolio.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		http.Error(w, "get failed", http.StatusInternalServerError)
		return
	}
	existing.Name = req.Name
	existing.Address = req.Address
	existing.OwnerEmail = req.OwnerEmail
	if req.BillingAPIKey != "" {
		existing.BillingAPIKey = req.BillingAPIKey
	}
	if err := h.store.Update(r.Context(), existing); err != nil {
		http.Error(w, "update failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(toPayload(*existing, false))
	h.logAudit(r, id, "property.update")
}

func (h *Handler) logAudit(r *http.Request, propertyID, action string) {
	if h.auditLogger == nil {
		return
	}
	accountID := auth.AccountIDFromContext(r.Context())
	if accountID == "" {
		return
	}
	_ = h.auditLogger.Log(r.Context(), audit.Entry{
		AccountID:    accountID,
		Actor:        auth.SubjectFromContext(r.Context()),
		Role:         string(auth.RoleFromContext(r.Context())),
		Action:       action,
		ResourceType: "property",
		ResourceID:   propertyID,
		PropertyID:   propertyID,
		IP:           audit.ClientIP(r),
		UserAgent:    r.UserAgent(),
	})
}

func toPayload(p portfolio.Property, includeKey bool) propertyPayload {
	payload := propertyPayload{
		ID:         p.ID,
		OwnerID:    p.OwnerID,
		Name:       p.Name,
		Address:    p.Address,
		OwnerEmail: p.OwnerEmail,
	}
	if includeKey {
		payload.BillingAPIKey = p.BillingAPIKey
	}
	return payload
}

func fromPayload(req propertyPayload) portfolio.Property {
	return portfolio.Property{
		ID:            req.ID,
		OwnerID:       req.OwnerID,
		Name:          req.Name,
		Address:       req.Address,
		OwnerEmail:    req.OwnerEmail,
		BillingAPIKey: req.BillingAPIKey,
	}
}
