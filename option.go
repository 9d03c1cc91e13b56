package arbiter

import (
	"time"

	"github.com/arbiterhq/arbiter/model"
	"github.com/arbiterhq/arbiter/model/types"
	"github.com/arbiterhq/arbiter/service/approval"
	"github.com/arbiterhq/arbiter/service/audit"
	"github.com/arbiterhq/arbiter/service/dao"
	"github.com/arbiterhq/arbiter/service/dao/decision"
	"github.com/arbiterhq/arbiter/service/dao/domain"
	"github.com/arbiterhq/arbiter/service/event"
	"github.com/arbiterhq/arbiter/service/executor"
	"github.com/arbiterhq/arbiter/service/messaging"
	"github.com/arbiterhq/arbiter/tracing"
	"github.com/viant/x"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Option customises the engine service.
type Option func(s *Service)

// WithConfig sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(s *Service) {
		if config != nil {
			s.config = config
		}
	}
}

// WithDecisionDAO sets the decision store.
func WithDecisionDAO(svc decision.Service) Option {
	return func(s *Service) { s.runtime.decisions = svc }
}

// WithPolicyDAO sets the risk policy store.
func WithPolicyDAO(svc dao.Service[model.PolicyKey, model.RiskPolicy]) Option {
	return func(s *Service) { s.policyDAO = svc }
}

// WithOutcomeDAO sets the decision outcome store.
func WithOutcomeDAO(svc dao.Service[string, model.Outcome]) Option {
	return func(s *Service) { s.outcomeDAO = svc }
}

// WithAuditService sets the audit sink.
func WithAuditService(svc audit.Service) Option {
	return func(s *Service) { s.auditService = svc }
}

// WithApprovalService sets the approval queue service.
func WithApprovalService(svc approval.Service) Option {
	return func(s *Service) { s.runtime.approvals = svc }
}

// WithApprovalTTL overrides the approval window.
func WithApprovalTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.config.Approval.TTL = ttl
		}
	}
}

// WithDomainStores sets the domain record stores handlers mutate.
func WithDomainStores(stores *domain.Stores) Option {
	return func(s *Service) { s.stores = stores }
}

// WithHandlerServices registers additional decision handler services.  A
// service declaring a built-in decision type replaces the built-in handler.
func WithHandlerServices(services ...types.Service) Option {
	return func(s *Service) {
		s.extensionServices = append(s.extensionServices, services...)
	}
}

// WithExtensionTypes pre-registers handler input types.
func WithExtensionTypes(goTypes ...*x.Type) Option {
	return func(s *Service) {
		s.extensionTypes = append(s.extensionTypes, goTypes...)
	}
}

// WithEventQueue sets the queue decision lifecycle events are published on.
func WithEventQueue(queue messaging.Queue[event.Event]) Option {
	return func(s *Service) { s.eventQueue = queue }
}

// WithExecutorOptions supplies additional options passed to executor.New,
// e.g. a listener observing every execution.
func WithExecutorOptions(opts ...executor.Option) Option {
	return func(s *Service) {
		s.executorOptions = append(s.executorOptions, opts...)
	}
}

// WithTracing configures OpenTelemetry tracing for the service.  If
// outputFile is empty the stdout exporter is used.  Safe to call multiple
// times; the first successful initialisation wins.
func WithTracing(serviceName, serviceVersion, outputFile string) Option {
	return func(s *Service) {
		_ = tracing.Init(serviceName, serviceVersion, outputFile)
	}
}

// WithTracingExporter configures OpenTelemetry tracing using a custom
// SpanExporter, e.g. OTLP, Jaeger or Zipkin.
func WithTracingExporter(serviceName, serviceVersion string, exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		_ = tracing.InitWithExporter(serviceName, serviceVersion, exporter)
	}
}
