package sim

import (
	"context"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/Garsondee/Star-Sense/internal/sim"

type metrics struct {
	spawnedC   metric.Int64Counter
	prunedC    metric.Int64Counter
	hitsC      metric.Int64Counter
	destroyedC metric.Int64Counter
	shotsC     metric.Int64Counter
}

// newMetrics registers the world counters on the global meter, which is a
// no-op until an SDK provider is installed. If registration fails the world
// still runs, counting into a no-op meter.
func newMetrics(log zerolog.Logger) *metrics {
	m, err := buildMetrics(otel.Meter(instrumentationName))
	if err != nil {
		log.Warn().Err(err).Msg("metrics disabled")
		m, _ = buildMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}
	return m
}

func buildMetrics(meter metric.Meter) (*metrics, error) {
	m := &metrics{}
	var err error
	if m.spawnedC, err = meter.Int64Counter("sim.entities.spawned",
		metric.WithDescription("Entities moved from the spawn queue into the world")); err != nil {
		return nil, err
	}
	if m.prunedC, err = meter.Int64Counter("sim.entities.pruned",
		metric.WithDescription("Inactive entities removed by pruning")); err != nil {
		return nil, err
	}
	if m.hitsC, err = meter.Int64Counter("sim.projectile.hits",
		metric.WithDescription("Projectiles that struck a ship")); err != nil {
		return nil, err
	}
	if m.destroyedC, err = meter.Int64Counter("sim.ships.destroyed",
		metric.WithDescription("Ships and hardpoints destroyed")); err != nil {
		return nil, err
	}
	if m.shotsC, err = meter.Int64Counter("sim.shots.fired",
		metric.WithDescription("Projectiles fired")); err != nil {
		return nil, err
	}
	return m, nil
}

func factionAttr(f int) metric.AddOption {
	return metric.WithAttributes(attribute.Int("faction", f))
}

func (m *metrics) spawned(ctx context.Context, faction int) {
	m.spawnedC.Add(ctx, 1, factionAttr(faction))
}

func (m *metrics) pruned(ctx context.Context, faction int) {
	m.prunedC.Add(ctx, 1, factionAttr(faction))
}

func (m *metrics) hit(ctx context.Context, faction int) {
	m.hitsC.Add(ctx, 1, factionAttr(faction))
}

func (m *metrics) destroyed(ctx context.Context, faction int) {
	m.destroyedC.Add(ctx, 1, factionAttr(faction))
}

func (m *metrics) shot(ctx context.Context, faction int) {
	m.shotsC.Add(ctx, 1, factionAttr(faction))
}
