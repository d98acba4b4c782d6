package steps

import (
	"context"
	"fmt"

	"github.com/shaiso/Conveyor/internal/domain"
	"github.com/shaiso/Conveyor/internal/pipeline"
)

// StartService запускает службу и ждёт статус Running.
//
// Вместо фиксированной паузы — ограниченный poll: служба либо
// доходит до Running до дедлайна, либо run фатально падает.
// Зарегистрированная, но не стартовавшая служба остаётся
// в таблице служб (отката нет).
type StartService struct {
	env *Env
}

// NewStartService создаёт шаг запуска службы.
func NewStartService(env *Env) *StartService {
	return &StartService{env: env}
}

func (s *StartService) Name() string { return "start-service" }

func (s *StartService) Run(ctx context.Context) (domain.StepOutcome, error) {
	spec := s.env.Spec

	if err := s.env.Svc.Start(ctx, spec.ServiceName); err != nil {
		return domain.StepFailed, fmt.Errorf("%w: %v", pipeline.ErrServiceStart, err)
	}

	err := s.env.Svc.WaitState(ctx, spec.ServiceName, domain.ServiceRunning, spec.StartTimeout)
	if err != nil {
		return domain.StepFailed, fmt.Errorf("%w: %v", pipeline.ErrServiceStart, err)
	}
	return domain.StepChanged, nil
}
