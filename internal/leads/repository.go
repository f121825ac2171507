package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultListLimit caps List results when the caller asks for more, or for
// nothing at all.
const DefaultListLimit = 200

// Repository defines the interface for lead storage
type Repository interface {
	// Create persists the lead with a server-assigned id, timestamp and
	// status "new", and returns the id.
	Create(ctx context.Context, lead *NewLead) (string, error)

	// UpdateStatus changes the status of an existing lead. It rejects
	// values outside the status enum before touching storage.
	UpdateStatus(ctx context.Context, id string, status Status) error

	// List returns leads ordered by creation time descending, capped at
	// limit (DefaultListLimit when limit is zero or out of range).
	List(ctx context.Context, limit int) ([]*Lead, error)
}

// InMemoryRepository keeps leads in process memory. Used in tests and when
// the service runs without a database.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
	order []string
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
	}
}

// Create stores the lead in memory
func (r *InMemoryRepository) Create(ctx context.Context, lead *NewLead) (string, error) {
	stored := &Lead{
		ID:          uuid.New().String(),
		CreatedAt:   time.Now().UTC(),
		PagePath:    lead.PagePath,
		FormID:      lead.FormID,
		LeadType:    lead.LeadType,
		Status:      StatusNew,
		LeadScore:   lead.LeadScore,
		Fields:      lead.Fields,
		Attribution: lead.Attribution,
		UserAgent:   lead.UserAgent,
		IP:          lead.IP,
	}

	r.mu.Lock()
	r.leads[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	r.mu.Unlock()

	return stored.ID, nil
}

// UpdateStatus changes the status of a stored lead
func (r *InMemoryRepository) UpdateStatus(ctx context.Context, id string, status Status) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	lead, ok := r.leads[id]
	if !ok {
		return ErrLeadNotFound
	}
	lead.Status = status
	return nil
}

// List returns stored leads, most recent first. Leads are returned as
// copies so callers never observe a concurrent status update mid-read.
func (r *InMemoryRepository) List(ctx context.Context, limit int) ([]*Lead, error) {
	if limit <= 0 || limit > DefaultListLimit {
		limit = DefaultListLimit
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Lead, 0, limit)
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		lead := *r.leads[r.order[i]]
		out = append(out, &lead)
	}
	return out, nil
}

// GetByID retrieves a copy of a lead by ID
func (r *InMemoryRepository) GetByID(ctx context.Context, id string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored, ok := r.leads[id]
	if !ok {
		return nil, ErrLeadNotFound
	}
	lead := *stored
	return &lead, nil
}
