// Package agent выполняет deploys на хосте.
//
// Agent отвечает за:
//   - Получение новых deploys из очереди RabbitMQ
//   - Периодическую проверку pending deploys в БД (polling fallback,
//     он же подхватывает deploys с отложенным maintenance window)
//   - Запуск pipeline шагов для каждого deploy
//   - Запись истории и результатов шагов в БД
//   - Публикацию события deploy.completed
//
// Deploys одной службы выполняются строго последовательно.
package agent
