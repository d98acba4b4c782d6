// Package config загружает конфигурацию CLI.
//
// Источники в порядке приоритета:
//  1. Флаги CLI (применяются вызывающей стороной)
//  2. Переменные окружения CONVEYOR_*
//  3. YAML-файл (--config или conveyor.yaml в текущей директории)
//  4. Значения по умолчанию из domain.DefaultSpec
//
// Агент конфигурируется напрямую переменными окружения
// (CONVEYOR_DB_URL, RABBITMQ_URL, AGENT_PORT, CONVEYOR_TOKEN)
// в cmd/conveyor-agent.
package config
