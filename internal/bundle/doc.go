// Package bundle собирает артефакт развёртывания.
//
// Из директории с исходниками приложения копируется фиксированный
// набор файлов и директорий (без __pycache__, *.pyc и .git),
// дописываются стартовые скрипты и production-конфиг, и всё
// упаковывается в zip с отметкой времени в имени. Полученный архив —
// Deployment Artifact, который CI кладёт на хост перед запуском
// pipeline.
package bundle
