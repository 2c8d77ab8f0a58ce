package injector

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/zeusync/entitycore/internal/config"
	"github.com/zeusync/entitycore/internal/core/events/bus"
	"github.com/zeusync/entitycore/internal/core/models"
	"github.com/zeusync/entitycore/internal/core/models/ids"
	"github.com/zeusync/entitycore/internal/core/observability/log"
	"github.com/zeusync/entitycore/internal/core/observability/metrics"
	"github.com/zeusync/entitycore/internal/core/systems"
)

// Runtime is everything the demo needs to run one world.
type Runtime struct {
	Config   *config.Config
	Logger   *log.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Collector
	Events   bus.EventBus
	World    *models.Context[string]
	Systems  *systems.Manager
}

// Close flushes the logger.
func (r *Runtime) Close() error {
	return r.Logger.Sync()
}

var ProviderSet = wire.NewSet(
	ProvideLogger,
	ProvideRegistry,
	ProvideCollector,
	ProvideEventBus,
	ProvideGenerator,
	ProvideWorld,
	ProvideSystems,
	wire.Struct(new(Runtime), "*"),
)

func ProvideLogger(cfg *config.Config) (*log.Logger, error) {
	lc, err := cfg.LogConfig()
	if err != nil {
		return nil, err
	}
	return log.New(lc)
}

func ProvideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// ProvideCollector returns nil when metrics are disabled; a nil Collector records nothing.
func ProvideCollector(cfg *config.Config, reg *prometheus.Registry) (*metrics.Collector, error) {
	if !cfg.Metrics.Enabled {
		return nil, nil
	}
	return metrics.New(reg)
}

// ProvideEventBus attaches the collector, when metrics are enabled, as a bus observer.
func ProvideEventBus(collector *metrics.Collector) bus.EventBus {
	b := bus.New()
	if collector != nil {
		b.AddObserver(collector)
	}
	return b
}

// ProvideGenerator maps the configured strategy onto string ids. Only the key
// strategy makes the world upsert on Get.
func ProvideGenerator(cfg *config.Config) (ids.Generator[string], error) {
	strategy, err := cfg.Strategy()
	if err != nil {
		return nil, err
	}
	switch strategy {
	case ids.StrategyKey:
		return ids.Keys(), nil
	case ids.StrategyUUID:
		return ids.GeneratorFunc[string](uuid.NewString), nil
	case ids.StrategyCounter:
		counter := ids.Counter(cfg.IDs.CounterStart)
		return ids.GeneratorFunc[string](func() string {
			return strconv.FormatUint(counter.Next(), 10)
		}), nil
	default:
		return nil, fmt.Errorf("unsupported id strategy %q", strategy)
	}
}

func ProvideWorld(
	cfg *config.Config,
	gen ids.Generator[string],
	logger *log.Logger,
	collector *metrics.Collector,
	events bus.EventBus,
) (*models.Context[string], error) {
	policy, err := cfg.FailurePolicy()
	if err != nil {
		return nil, err
	}
	return models.NewContext(gen,
		models.WithLogger(logger.With(log.String("component", "world"))),
		models.WithMetrics(collector),
		models.WithEventBus(events),
		models.WithFailurePolicy(policy),
	), nil
}

func ProvideSystems(logger *log.Logger, collector *metrics.Collector) *systems.Manager {
	return systems.NewManager(logger.With(log.String("component", "systems")), collector)
}
