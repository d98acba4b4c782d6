// Package host абстрагирует взаимодействие с целевым хостом.
//
// Все внешние команды (python, pip, nssm, net) проходят через
// интерфейс CommandRunner, поэтому шаги pipeline тестируются
// изолированно на фейковом runner'е, без реального хоста.
package host
