package arbiter

import (
	"github.com/arbiterhq/arbiter/extension"
	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/model/types"
	"github.com/arbiterhq/arbiter/risk"
	"github.com/arbiterhq/arbiter/service/action/crm"
	"github.com/arbiterhq/arbiter/service/action/invoicing"
	"github.com/arbiterhq/arbiter/service/action/task"
	amemory "github.com/arbiterhq/arbiter/service/approval/memory"
	"github.com/arbiterhq/arbiter/service/audit"
	"github.com/arbiterhq/arbiter/service/batch"
	"github.com/arbiterhq/arbiter/service/dao"
	dmemory "github.com/arbiterhq/arbiter/service/dao/decision/memory"
	"github.com/arbiterhq/arbiter/service/dao/domain"
	omemory "github.com/arbiterhq/arbiter/service/dao/outcome/memory"
	pmemory "github.com/arbiterhq/arbiter/service/dao/policy/memory"
	"github.com/arbiterhq/arbiter/service/event"
	"github.com/arbiterhq/arbiter/service/executor"
	"github.com/arbiterhq/arbiter/service/messaging"
	mmemory "github.com/arbiterhq/arbiter/service/messaging/memory"
	"github.com/arbiterhq/arbiter/service/policy"
	"github.com/viant/afs"
	"github.com/viant/x"
)

// Service assembles the engine: stores, registry, executor, approval queue
// and batch processor.  Memory-backed defaults make the zero-option setup
// fully functional; production deployments swap stores through options.
type Service struct {
	runtime           *Runtime
	config            *Config
	handlers          *extension.Handlers
	extensionTypes    []*x.Type
	extensionServices []types.Service
	executorOptions   []executor.Option
	stores            *domain.Stores
	auditService      audit.Service
	policyDAO         dao.Service[model.PolicyKey, model.RiskPolicy]
	outcomeDAO        dao.Service[string, model.Outcome]
	eventQueue        messaging.Queue[event.Event]
}

func (s *Service) init(options []Option) {
	for _, option := range options {
		option(s)
	}
	s.ensureBaseSetup()

	s.handlers = extension.NewHandlers(s.extensionTypes...)
	s.handlers.Register(invoicing.New(s.stores))
	s.handlers.Register(crm.New(s.stores))
	s.handlers.Register(task.New(s.stores))
	for _, service := range s.extensionServices {
		s.handlers.Register(service)
	}

	executorOptions := append([]executor.Option{executor.WithAudit(s.auditService)}, s.executorOptions...)
	s.runtime.executor = executor.New(s.handlers, executorOptions...)

	s.runtime.publisher = event.NewPublisher(s.eventQueue)
	s.runtime.policies = policy.New(s.policyDAO, s.outcomeDAO)
	s.runtime.scorer = risk.NewScorer(s.runtime.policies)

	if s.runtime.approvals == nil {
		s.runtime.approvals = amemory.New(s.runtime.decisions,
			amemory.WithPublisher(s.runtime.publisher),
			amemory.WithTTL(s.config.Approval.TTL))
	}
	s.runtime.batch = batch.New(s.runtime.decisions, s.runtime.executor,
		s.runtime.policies, s.runtime.approvals, s.runtime.publisher, s.config.Batch)
}

func (s *Service) ensureBaseSetup() {
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if s.runtime.decisions == nil {
		s.runtime.decisions = dmemory.New()
	}
	if s.policyDAO == nil {
		s.policyDAO = pmemory.New()
	}
	if s.outcomeDAO == nil {
		s.outcomeDAO = omemory.New()
	}
	if s.stores == nil {
		s.stores = domain.NewMemoryStores()
	}
	if s.auditService == nil {
		if s.config.Audit.URL != "" {
			s.auditService = audit.NewJSONL(afs.New(), s.config.Audit.URL)
		} else {
			s.auditService = audit.NewMemory()
		}
	}
	if s.eventQueue == nil {
		s.eventQueue = mmemory.NewQueue[event.Event](mmemory.DefaultConfig())
	}
}

// Validate checks that every known decision type has a registered handler.
func (s *Service) Validate() error {
	return s.handlers.Validate()
}

// Runtime returns the operation surface of the engine.
func (s *Service) Runtime() *Runtime {
	return s.runtime
}

// RegisterHandlerServices registers additional handler services after
// construction.
func (s *Service) RegisterHandlerServices(services ...types.Service) {
	for i := range services {
		s.handlers.Register(services[i])
	}
}

// Handlers exposes the handler registry.
func (s *Service) Handlers() *extension.Handlers {
	return s.handlers
}

// DomainStores exposes the domain record stores, mainly for tests and
// seeding.
func (s *Service) DomainStores() *domain.Stores {
	return s.stores
}

// EventQueue exposes the lifecycle event queue for consumers.
func (s *Service) EventQueue() messaging.Queue[event.Event] {
	return s.eventQueue
}

// New creates a new engine service.
func New(options ...Option) *Service {
	ret := &Service{runtime: &Runtime{}, config: DefaultConfig()}
	ret.init(options)
	return ret
}
