// Package steps содержит конкретные шаги развёртывания.
//
// Каждый шаг — отдельный тип в своём файле, реализующий
// pipeline.Step. Порядок выполнения фиксирован и задаётся
// Sequence: привилегии → остановка службы → директория →
// интерпретатор → venv → зависимости → стартовый скрипт →
// NSSM → регистрация → запуск.
//
// Шаги не знают друг о друге; всё общее состояние — DeploySpec
// и коллаборторы из Env.
package steps
