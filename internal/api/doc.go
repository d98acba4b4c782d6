// Package api предоставляет HTTP API агента.
//
// Endpoints:
//   - POST /api/v1/deploys      — создать deploy (CI, CLI --remote)
//   - GET  /api/v1/deploys      — история deploys
//   - GET  /api/v1/deploys/{id} — deploy с результатами шагов
//
// Все маршруты защищены bearer-токеном; пустой токен в конфигурации
// отключает проверку (локальная разработка).
package api
