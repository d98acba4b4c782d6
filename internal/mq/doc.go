// Package mq предоставляет инфраструктуру для работы с RabbitMQ.
//
// Структура:
//   - connection.go — управление соединением (reconnect, graceful shutdown)
//   - topology.go   — объявление exchanges, queues, bindings
//   - publisher.go  — публикация сообщений
//   - consumer.go   — потребление сообщений
//
// Типы сообщений:
//   - deploy.requested — запрошено развёртывание
//   - deploy.completed — развёртывание завершено
//
// Exchanges:
//   - conveyor.deploys — события deploys
//   - conveyor.dlq     — dead letter queue
package mq
