package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics OpenTelemetry 指标集合
type OTelMetrics struct {
	// 参与度引擎相关指标
	ScoreComputedTotal    metric.Int64Counter
	ScoreComputeDuration  metric.Float64Histogram
	BadgeAwardedTotal     metric.Int64Counter
	BadgeRevokedTotal     metric.Int64Counter
	BadgeRecalcTotal      metric.Int64Counter
	ActionTransitionTotal metric.Int64Counter
	ChallengeEventTotal   metric.Int64Counter
}

var (
	// 全局指标实例
	metrics *OTelMetrics
	// meter 用于创建指标
	meter = otel.Meter("hearthabit")
)

// InitMetrics 初始化 OpenTelemetry 指标
func InitMetrics() error {
	var err error

	metrics = &OTelMetrics{}

	metrics.ScoreComputedTotal, err = meter.Int64Counter(
		"health_score_computed_total",
		metric.WithDescription("Total number of health score computations"),
		metric.WithUnit("{computation}"),
	)
	if err != nil {
		return err
	}

	metrics.ScoreComputeDuration, err = meter.Float64Histogram(
		"health_score_compute_duration_seconds",
		metric.WithDescription("Time spent computing health scores in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	metrics.BadgeAwardedTotal, err = meter.Int64Counter(
		"badges_awarded_total",
		metric.WithDescription("Total number of badges awarded by recalculation"),
		metric.WithUnit("{badge}"),
	)
	if err != nil {
		return err
	}

	metrics.BadgeRevokedTotal, err = meter.Int64Counter(
		"badges_revoked_total",
		metric.WithDescription("Total number of badges revoked by recalculation"),
		metric.WithUnit("{badge}"),
	)
	if err != nil {
		return err
	}

	metrics.BadgeRecalcTotal, err = meter.Int64Counter(
		"badge_recalculations_total",
		metric.WithDescription("Total number of badge recalculation runs"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return err
	}

	metrics.ActionTransitionTotal, err = meter.Int64Counter(
		"action_transitions_total",
		metric.WithDescription("Total number of action lifecycle transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return err
	}

	metrics.ChallengeEventTotal, err = meter.Int64Counter(
		"challenge_events_total",
		metric.WithDescription("Total number of challenge enrollment events"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// Meter 暴露给其他包注册各自的指标
func Meter() metric.Meter {
	return meter
}

// RecordScoreComputed 记录一次健康分计算
func (m *OTelMetrics) RecordScoreComputed(ctx context.Context, trigger string, duration float64) {
	m.ScoreComputedTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("trigger", trigger),
	))
	m.ScoreComputeDuration.Record(ctx, duration, metric.WithAttributes(
		attribute.String("trigger", trigger),
	))
}

// RecordBadgeRecalc 记录一次徽章重算（含新增/移除数量）
func (m *OTelMetrics) RecordBadgeRecalc(ctx context.Context, awarded, revoked int64) {
	m.BadgeRecalcTotal.Add(ctx, 1)
	if awarded > 0 {
		m.BadgeAwardedTotal.Add(ctx, awarded)
	}
	if revoked > 0 {
		m.BadgeRevokedTotal.Add(ctx, revoked)
	}
}

// RecordActionTransition 记录动作生命周期转换
func (m *OTelMetrics) RecordActionTransition(ctx context.Context, transition string) {
	m.ActionTransitionTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("transition", transition),
	))
}

// RecordChallengeEvent 记录挑战事件（join / progress / leave）
func (m *OTelMetrics) RecordChallengeEvent(ctx context.Context, event string) {
	m.ChallengeEventTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
	))
}
