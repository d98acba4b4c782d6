// Package telemetry обеспечивает наблюдаемость системы.
//
// Включает:
//   - logging.go — structured logging через slog
//   - metrics.go — Prometheus метрики
//
// CLI и агент используют единый формат логирования;
// агент экспортирует метрики на /metrics endpoint.
package telemetry
