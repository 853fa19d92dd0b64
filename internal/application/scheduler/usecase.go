package scheduler

import (
	"context"

	"github.com/jhoicas/replenishment-api/internal/application/authz"
	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
)

// SchedulerUseCase expone el programador a usuarios con authz.SchedulerManage.
type SchedulerUseCase struct {
	svc  *Service
	gate *authz.Gate
}

// NewSchedulerUseCase construye el caso de uso.
func NewSchedulerUseCase(svc *Service, gate *authz.Gate) *SchedulerUseCase {
	return &SchedulerUseCase{svc: svc, gate: gate}
}

func (uc *SchedulerUseCase) Status(id entity.Identity) (*dto.SchedulerStatusResponse, error) {
	if err := uc.gate.Check(id, authz.SchedulerManage); err != nil {
		return nil, err
	}
	st := uc.svc.Status()
	return &st, nil
}

func (uc *SchedulerUseCase) Start(id entity.Identity) (*dto.SchedulerStatusResponse, error) {
	if err := uc.gate.Check(id, authz.SchedulerManage); err != nil {
		return nil, err
	}
	uc.svc.Start()
	st := uc.svc.Status()
	return &st, nil
}

func (uc *SchedulerUseCase) Stop(id entity.Identity) (*dto.SchedulerStatusResponse, error) {
	if err := uc.gate.Check(id, authz.SchedulerManage); err != nil {
		return nil, err
	}
	uc.svc.Stop()
	st := uc.svc.Status()
	return &st, nil
}

// RunNow corrida manual; devuelve el resumen de la creación automática.
func (uc *SchedulerUseCase) RunNow(ctx context.Context, id entity.Identity) (*dto.AutoCreateResponse, error) {
	if err := uc.gate.Check(id, authz.SchedulerManage); err != nil {
		return nil, err
	}
	res, err := uc.svc.RunNow(ctx)
	if err != nil {
		return nil, err
	}
	return res.Response(), nil
}
