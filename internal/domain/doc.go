// Package domain содержит основные модели системы.
//
// Здесь определены:
//   - DeploySpec — параметры развёртывания (куда, что, как запускать)
//   - Deploy — экземпляр выполнения развёртывания
//   - StepRecord — результат одного шага pipeline
//   - Статусы deploy, шагов и Windows-службы
//
// Пакет не зависит от инфраструктуры (БД, MQ, exec) —
// только модели и переходы состояний.
package domain
