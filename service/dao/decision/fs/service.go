package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/criteria"
	ddao "github.com/arbiterhq/arbiter/service/dao/decision"
	"github.com/viant/afs"
	"github.com/viant/afs/file"
)

// Service implements a filesystem-backed decision store.  One JSON document
// per decision keeps the store inspectable with standard tooling; the mutex
// provides the single-process claim exclusion the memory store gets from its
// lock.
type Service struct {
	basePath string
	fs       afs.Service
	mu       sync.Mutex
}

var _ ddao.Service = (*Service)(nil)

// New creates a filesystem decision DAO rooted at basePath.
func New(fsService afs.Service, basePath string) *Service {
	return &Service{fs: fsService, basePath: basePath}
}

func (s *Service) decisionPath(id string) string {
	return path.Join(s.basePath, id+".json")
}

// Save persists a decision document.
func (s *Service) Save(ctx context.Context, d *model.Decision) error {
	if d == nil {
		return dao.ErrNilEntity
	}
	if d.ID == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upload(ctx, d)
}

func (s *Service) upload(ctx context.Context, d *model.Decision) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal decision %s: %w", d.ID, err)
	}
	if err := s.fs.Upload(ctx, s.decisionPath(d.ID), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to save decision %s: %w", d.ID, err)
	}
	return nil
}

// Load retrieves a decision by id, or nil when absent.
func (s *Service) Load(ctx context.Context, id string) (*model.Decision, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx, id)
}

func (s *Service) load(ctx context.Context, id string) (*model.Decision, error) {
	filePath := s.decisionPath(id)
	exists, err := s.fs.Exists(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to check decision %s: %w", id, err)
	}
	if !exists {
		return nil, nil
	}
	data, err := s.fs.DownloadWithURL(ctx, filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read decision %s: %w", id, err)
	}
	var d model.Decision
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("failed to unmarshal decision %s: %w", id, err)
	}
	return &d, nil
}

// Delete removes a decision document.  Decisions are audit records and are
// normally only transitioned; deletion exists for test cleanup.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fs.Delete(ctx, s.decisionPath(id))
}

// List scans the store directory and applies the same filters as the memory
// implementation.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*model.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.fs.Exists(ctx, s.basePath)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	objects, err := s.fs.List(ctx, s.basePath)
	if err != nil {
		return nil, fmt.Errorf("failed to list decisions: %w", err)
	}

	tenant, _ := criteria.Filter(dao.ParamTenantID, parameters)
	status, _ := criteria.Filter(dao.ParamStatus, parameters)
	unexecuted, _ := criteria.Filter(dao.ParamUnexecuted, parameters)

	var out []*model.Decision
	for _, obj := range objects {
		if obj.IsDir() || !strings.HasSuffix(obj.Name(), ".json") {
			continue
		}
		d, err := s.load(ctx, strings.TrimSuffix(obj.Name(), ".json"))
		if err != nil || d == nil {
			continue
		}
		if tenant != nil && !criteria.Matches(d.TenantID, tenant) {
			continue
		}
		if status != nil && !criteria.Matches(string(d.Status), status) {
			continue
		}
		if wantUnexecuted, ok := unexecuted.(bool); ok && wantUnexecuted && d.ExecutedAt != nil {
			continue
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	if limit := criteria.Limit(parameters); limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListExecutable returns approved, unexecuted decisions oldest first.
func (s *Service) ListExecutable(ctx context.Context, tenantID string, limit int) ([]*model.Decision, error) {
	parameters := []*dao.Parameter{
		{Name: dao.ParamStatus, Value: string(model.StatusApproved)},
		{Name: dao.ParamUnexecuted, Value: true},
	}
	if tenantID != "" {
		parameters = append(parameters, &dao.Parameter{Name: dao.ParamTenantID, Value: tenantID})
	}
	if limit > 0 {
		parameters = append(parameters, dao.WithLimit(limit))
	}
	return s.List(ctx, parameters...)
}

// Claim stamps ExecutedAt under the service mutex.  The read-check-write is
// atomic only within this process; multi-process deployments need a store
// with a conditional update.
func (s *Service) Claim(ctx context.Context, id string, now time.Time) (*model.Decision, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, dao.ErrNotFound
	}
	if d.Status != model.StatusApproved || d.ExecutedAt != nil {
		return nil, dao.ErrAlreadyClaimed
	}
	at := now
	d.ExecutedAt = &at
	if err := s.upload(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// Transition applies the optimistic status check and mutation.
func (s *Service) Transition(ctx context.Context, id string, from, to model.Status, mutate func(*model.Decision)) (bool, error) {
	if !from.CanTransition(to) {
		return false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.load(ctx, id)
	if err != nil {
		return false, err
	}
	if d == nil {
		return false, dao.ErrNotFound
	}
	if d.Status != from {
		return false, nil
	}
	d.Status = to
	if mutate != nil {
		mutate(d)
	}
	if err := s.upload(ctx, d); err != nil {
		return false, err
	}
	return true, nil
}
