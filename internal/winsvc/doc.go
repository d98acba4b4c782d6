// Package winsvc управляет Windows-службами через NSSM и sc.exe.
//
// Разделение обязанностей:
//   - sc.exe — опрос состояния и остановка: всегда присутствует на
//     хосте, поэтому работает до того, как NSSM скачан
//   - nssm.exe — регистрация, удаление и запуск обёрнутой службы
//
// Ожидание целевого состояния — ограниченный poll с растущей
// задержкой вместо фиксированного sleep.
package winsvc
