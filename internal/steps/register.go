package steps

import (
	"context"
	"fmt"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/winsvc"
)

// RegisterService регистрирует службу в таблице служб.
//
// Существующая служба с тем же именем сначала удаляется:
// после успешного run в таблице ровно одна запись с этим именем,
// привязанная к свежему стартовому скрипту.
type RegisterService struct {
	env *Env
}

// NewRegisterService создаёт шаг регистрации службы.
func NewRegisterService(env *Env) *RegisterService {
	return &RegisterService{env: env}
}

func (s *RegisterService) Name() string { return "register-service" }

func (s *RegisterService) Run(ctx context.Context) (domain.StepOutcome, error) {
	spec := s.env.Spec

	state, err := s.env.Svc.State(ctx, spec.ServiceName)
	if err != nil {
		return domain.StepFailed, err
	}
	if state != domain.ServiceNotInstalled {
		if err := s.env.Svc.Remove(ctx, spec.ServiceName); err != nil {
			return domain.StepFailed, fmt.Errorf("remove previous registration: %w", err)
		}
	}

	err = s.env.Svc.Install(ctx, winsvc.InstallConfig{
		Name:        spec.ServiceName,
		Command:     spec.LauncherPath(),
		WorkingDir:  spec.AppDir,
		Description: spec.Description,
	})
	if err != nil {
		return domain.StepFailed, fmt.Errorf("register service: %w", err)
	}
	return domain.StepChanged, nil
}
