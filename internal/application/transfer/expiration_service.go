package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/jhoicas/Traslados-api/internal/domain"
	"github.com/jhoicas/Traslados-api/internal/domain/repository"
	"github.com/jhoicas/Traslados-api/pkg/logger"
)

// ExpirationService expira traslados pendientes cuya ventana venció.
// Corre como barrido periódico; como no es el único disparador posible,
// cada Expire individual tolera encontrar el traslado ya terminal.
type ExpirationService struct {
	uc           *UseCase
	transferRepo repository.TransferRepository
	log          *logger.Logger
}

// NewExpirationService construye el servicio de expiración.
func NewExpirationService(uc *UseCase, transferRepo repository.TransferRepository, log *logger.Logger) *ExpirationService {
	return &ExpirationService{uc: uc, transferRepo: transferRepo, log: log}
}

// ExpirationStats resultado de una pasada del barrido.
type ExpirationStats struct {
	Found       int       `json:"found"`
	Expired     int       `json:"expired"`
	Failed      int       `json:"failed"`
	ProcessedAt time.Time `json:"processed_at"`
}

const sweepBatchSize = 200

// Run ejecuta una pasada: busca pendientes vencidos y los expira uno a uno.
// Una falla individual se registra y no detiene el resto del lote.
func (s *ExpirationService) Run(ctx context.Context) (*ExpirationStats, error) {
	stats := &ExpirationStats{ProcessedAt: time.Now()}

	ids, err := s.transferRepo.FindExpiredPending(ctx, stats.ProcessedAt, sweepBatchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("barrido de expiración: buscar pendientes vencidos")
		return nil, err
	}
	stats.Found = len(ids)
	if stats.Found == 0 {
		return stats, nil
	}

	for _, id := range ids {
		err := s.uc.Expire(ctx, id)
		switch {
		case err == nil:
			stats.Expired++
		case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrNotFound):
			// Otro actor llegó primero; el estado final es el mismo.
			stats.Expired++
		default:
			stats.Failed++
			s.log.Error().Err(err).Str("transfer_id", id).Msg("expirar traslado")
		}
	}

	s.log.Info().
		Int("found", stats.Found).
		Int("expired", stats.Expired).
		Int("failed", stats.Failed).
		Msg("barrido de expiración de traslados")
	return stats, nil
}

// Start lanza el barrido periódico hasta que el contexto se cancele.
func (s *ExpirationService) Start(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := s.Run(ctx); err != nil && ctx.Err() == nil {
					s.log.Warn().Err(err).Msg("pasada de expiración falló, se reintenta en el próximo tick")
				}
			}
		}
	}()
}
