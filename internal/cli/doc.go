// Package cli реализует инструмент командной строки Conveyor.
//
// # Обзор
//
// CLI — утилита оператора. Два режима работы:
//   - Локальный: команды deploy/service выполняют шаги прямо
//     на этой машине (запуск от администратора)
//   - Удалённый: --remote отправляет запрос агенту по HTTP,
//     выполнение и история — на стороне агента
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для API агента. Инкапсулирует запросы, парсинг
// ответов (DataResponse, ListResponse, ErrorResponse), bearer-токен
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080", token)
//	deploy, err := client.CreateDeploy(req)
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Текст с цветной строкой на каждый шаг — по умолчанию
//   - JSON (--json)
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: conveyor deploy list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - deploy:  run, list, show
//   - service: status, remove
//   - bundle:  build
//   - login:   сохранение токена агента
//
// Каждая группа создаётся через фабричную функцию (NewDeployCmd и
// т.д.), принимающую замыкания для ленивого создания Client и Output
// после парсинга PersistentFlags.
package cli
