// Package fetch скачивает и распаковывает архивы инструментов.
//
// Используется единственным шагом pipeline — получением NSSM,
// когда nssm.exe отсутствует на хосте. Скачивание идёт во временный
// файл с атомарным переименованием; уже существующий файл
// не скачивается повторно.
package fetch
