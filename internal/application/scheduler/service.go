// Package scheduler programador automático de reposición: corre el planificador por
// intervalo, a demanda y después de cada recepción aprobada.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/replenishment-api/internal/application/dto"
	"github.com/jhoicas/replenishment-api/internal/application/events"
	"github.com/jhoicas/replenishment-api/internal/application/notify"
	"github.com/jhoicas/replenishment-api/internal/application/purchasing"
	"github.com/jhoicas/replenishment-api/internal/domain/entity"
	"github.com/jhoicas/replenishment-api/internal/domain/inventory"
	"github.com/jhoicas/replenishment-api/pkg/logger"
)

const (
	defaultInterval = 30 * time.Minute
	defaultTimeout  = 2 * time.Minute

	TriggerInterval = "interval"
	TriggerManual   = "manual"
	TriggerRecheck  = "recheck"
)

// AutoCreator lo implementa purchasing.PurchaseRequestUseCase.
type AutoCreator interface {
	AutoCreate(ctx context.Context, id entity.Identity) (*purchasing.AutoCreateResult, error)
}

// ServiceParams configuración del programador.
type ServiceParams struct {
	Logger       *logger.Logger
	Planner      AutoCreator
	Notifier     notify.Notifier // alerta de agotados; opcional
	Lock         Lock            // solo para las corridas por intervalo; por defecto LocalLock
	Metrics      *Metrics
	Interval     time.Duration
	RecheckDelay time.Duration
	RunTimeout   time.Duration
}

// Service programador. Start y Stop son idempotentes.
type Service struct {
	log          *logger.Logger
	planner      AutoCreator
	notifier     notify.Notifier
	lock         Lock
	metrics      *Metrics
	interval     time.Duration
	recheckDelay time.Duration
	timeout      time.Duration
	now          func() time.Time

	mu          sync.Mutex
	cancel      context.CancelFunc
	loopDone    chan struct{}
	lastRunAt   *time.Time
	lastError   string
	lastCreated int
	runs        int64

	life     context.Context
	shutdown context.CancelFunc
	rechecks sync.WaitGroup
}

// NewService construye el programador sin arrancarlo.
func NewService(p ServiceParams) (*Service, error) {
	if p.Logger == nil {
		return nil, errors.New("logger required")
	}
	if p.Planner == nil {
		return nil, errors.New("planner required")
	}
	if p.Lock == nil {
		p.Lock = &LocalLock{}
	}
	if p.Interval <= 0 {
		p.Interval = defaultInterval
	}
	if p.RunTimeout <= 0 {
		p.RunTimeout = defaultTimeout
	}
	if p.RecheckDelay < 0 {
		p.RecheckDelay = 0
	}
	life, shutdown := context.WithCancel(context.Background())
	return &Service{
		log:          p.Logger.Component("scheduler"),
		planner:      p.Planner,
		notifier:     p.Notifier,
		lock:         p.Lock,
		metrics:      p.Metrics,
		interval:     p.Interval,
		recheckDelay: p.RecheckDelay,
		timeout:      p.RunTimeout,
		now:          time.Now,
		life:         life,
		shutdown:     shutdown,
	}, nil
}

// Start arranca el ciclo por intervalo. Si ya está corriendo no hace nada.
func (s *Service) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(s.life)
	s.cancel = cancel
	s.loopDone = make(chan struct{})
	go s.loop(ctx, s.loopDone)
	s.log.Info().Dur("interval", s.interval).Msg("programador iniciado")
}

// Stop detiene el ciclo y espera a que termine la corrida en curso. Detenido, no hace nada.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.loopDone
	s.cancel, s.loopDone = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.log.Info().Msg("programador detenido")
}

// Close detiene el ciclo y descarta las re-evaluaciones pendientes (apagado del proceso).
// Tras Close las re-evaluaciones nuevas no se registran: shutdown y Add comparten s.mu.
func (s *Service) Close() {
	s.Stop()
	s.mu.Lock()
	s.shutdown()
	s.mu.Unlock()
	s.rechecks.Wait()
}

// Running indica si el ciclo por intervalo está activo.
func (s *Service) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}

// Status estado actual.
func (s *Service) Status() dto.SchedulerStatusResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := dto.SchedulerStatusResponse{
		Running:         s.cancel != nil,
		IntervalSeconds: int64(s.interval / time.Second),
		LastError:       s.lastError,
		LastCreated:     s.lastCreated,
		Runs:            s.runs,
	}
	if s.lastRunAt != nil {
		t := *s.lastRunAt
		st.LastRunAt = &t
	}
	return st
}

// RunNow ejecuta una corrida inmediata, funcione o no el ciclo. Repetirla es seguro:
// la creación automática no duplica solicitudes abiertas.
func (s *Service) RunNow(ctx context.Context) (*purchasing.AutoCreateResult, error) {
	return s.run(ctx, TriggerManual)
}

// HandleGoodsReceiptApproved re-evalúa el stock tras una recepción aprobada, con una espera corta.
// Se suscribe a events.GoodsReceiptApproved; su resultado nunca afecta a la aprobación.
func (s *Service) HandleGoodsReceiptApproved(ctx context.Context, e events.Event) error {
	s.mu.Lock()
	if s.life.Err() != nil {
		s.mu.Unlock()
		return nil
	}
	s.rechecks.Add(1)
	s.mu.Unlock()
	defer s.rechecks.Done()
	if s.recheckDelay > 0 {
		t := time.NewTimer(s.recheckDelay)
		defer t.Stop()
		select {
		case <-s.life.Done():
			return nil
		case <-ctx.Done():
			return nil
		case <-t.C:
		}
	}
	if s.life.Err() != nil {
		return nil
	}
	_, err := s.run(ctx, TriggerRecheck)
	if err != nil {
		return fmt.Errorf("re-evaluación tras recepción %s: %w", e.AggregateID, err)
	}
	return nil
}

func (s *Service) loop(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Service) tick(ctx context.Context) {
	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("no se pudo tomar el lock del programador")
		return
	}
	if !locked {
		s.log.Info().Msg("otra instancia está corriendo; se omite este ciclo")
		return
	}
	defer func() {
		if err := s.lock.Release(context.WithoutCancel(ctx)); err != nil {
			s.log.Error().Err(err).Msg("no se pudo liberar el lock del programador")
		}
	}()
	_, _ = s.run(ctx, TriggerInterval)
}

func (s *Service) run(ctx context.Context, trigger string) (*purchasing.AutoCreateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := s.now()
	res, err := s.planner.AutoCreate(ctx, entity.SystemIdentity)
	duration := time.Since(start)

	created, low := 0, 0
	if res != nil {
		created, low = len(res.Created), res.LowStock
	}
	s.metrics.observe(trigger, duration, err, created, low)
	s.record(start, created, err)

	var ev *zerolog.Event
	if err != nil {
		ev = s.log.Error().Err(err)
	} else {
		ev = s.log.Info()
	}
	ev.Str("job", "auto_create").Str("trigger", trigger).Int64("duration_ms", duration.Milliseconds()).
		Int("low_stock", low).Int("created", created).Msg("corrida del planificador")
	if err != nil {
		return res, err
	}
	s.alertOutOfStock(ctx, res.Assessments)
	return res, nil
}

func (s *Service) record(at time.Time, created int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.runs++
	s.lastRunAt = &at
	s.lastCreated = created
	s.lastError = ""
	if err != nil {
		s.lastError = err.Error()
	}
}

// alertOutOfStock envía un único resumen al rol manager con las ubicaciones agotadas.
func (s *Service) alertOutOfStock(ctx context.Context, assessments []inventory.Assessment) {
	if s.notifier == nil {
		return
	}
	var b strings.Builder
	n := 0
	for _, a := range assessments {
		if a.Urgency != inventory.UrgencyUrgent {
			continue
		}
		n++
		fmt.Fprintf(&b, "- %s %s en %s: stock %d, mínimo efectivo %d\n", a.SKU, a.ItemName, a.LocationCode, a.CurrentStock, a.EffectiveMinimum)
	}
	if n == 0 {
		return
	}
	s.notifier.Notify(ctx, string(entity.RoleManager), fmt.Sprintf("%d ubicaciones sin stock", n), b.String())
}
