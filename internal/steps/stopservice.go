package steps

import (
	"context"
	"fmt"

	"github.com/shaiso/Conveyor/internal/domain"
)

// StopService останавливает существующую службу перед переустановкой.
//
// Отсутствие службы — не ошибка: при первом развёртывании
// останавливать нечего.
type StopService struct {
	env *Env
}

// NewStopService создаёт шаг остановки службы.
func NewStopService(env *Env) *StopService {
	return &StopService{env: env}
}

func (s *StopService) Name() string { return "stop-service" }

func (s *StopService) Run(ctx context.Context) (domain.StepOutcome, error) {
	name := s.env.Spec.ServiceName

	state, err := s.env.Svc.State(ctx, name)
	if err != nil {
		return domain.StepFailed, err
	}

	switch state {
	case domain.ServiceNotInstalled, domain.ServiceStopped:
		return domain.StepSkipped, nil
	}

	if err := s.env.Svc.Stop(ctx, name, s.env.Spec.StopTimeout); err != nil {
		return domain.StepFailed, fmt.Errorf("stop existing service: %w", err)
	}
	return domain.StepChanged, nil
}
