package host

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner выполняет внешние команды на хосте.
//
// Единственная точка, через которую pipeline трогает процессы хоста.
type CommandRunner interface {
	// Run выполняет команду и возвращает объединённый stdout+stderr.
	// Ненулевой код выхода — ошибка (*CommandError).
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// CommandError — ошибка выполнения внешней команды.
//
// Сохраняет вывод команды: для nssm именно по выводу
// различается "службы нет" и настоящая ошибка.
type CommandError struct {
	Name   string
	Args   []string
	Output string
	Err    error
}

func (e *CommandError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("%s %s: %v", e.Name, strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("%s %s: %v: %s", e.Name, strings.Join(e.Args, " "), e.Err, out)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExecRunner — CommandRunner поверх os/exec.
type ExecRunner struct{}

// NewExecRunner создаёт ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run выполняет команду через os/exec с учётом ctx.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return string(out), &CommandError{
			Name:   name,
			Args:   args,
			Output: string(out),
			Err:    err,
		}
	}
	return string(out), nil
}

// IsElevated проверяет наличие прав администратора.
//
// `net session` завершается ошибкой доступа без elevation —
// стандартная проверка для административных скриптов Windows.
func IsElevated(ctx context.Context, runner CommandRunner) bool {
	_, err := runner.Run(ctx, "net", "session")
	return err == nil
}
