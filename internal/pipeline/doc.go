// Package pipeline выполняет последовательность идемпотентных шагов.
//
// Модель выполнения:
//   - Шаги выполняются строго последовательно, единственным актором
//   - Каждый шаг сначала опрашивает состояние хоста и действует
//     только при необходимости (changed / skipped / warned)
//   - Первая фатальная ошибка прерывает run (fail-fast, без retry)
//   - Отката нет: частично выполненный run оставляет хост как есть,
//     повторный запуск безопасно повторяет уже выполненные шаги
//
// Фатальные условия — сентинельные ошибки в errors.go; по ним
// вызывающая сторона определяет категорию отказа.
package pipeline
