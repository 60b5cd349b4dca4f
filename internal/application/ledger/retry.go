package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// withRetry reintenta fn con backoff exponencial solo si falla con ErrTransientStorage.
// Las reglas de negocio nunca se reintentan. Agotados los intentos devuelve ErrStorageUnavailable.
func (uc *LedgerUseCase) withRetry(ctx context.Context, op string, fn func() error) error {
	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = uc.cfg.RetryInitialInterval
	exp.MaxInterval = 20 * uc.cfg.RetryInitialInterval
	exp.MaxElapsedTime = 0 // lo acota WithMaxRetries

	policy := backoff.WithContext(backoff.WithMaxRetries(exp, uc.cfg.RetryMaxRetries), ctx)

	err := backoff.RetryNotify(func() error {
		err := fn()
		if err == nil || errors.Is(err, domain.ErrTransientStorage) {
			return err
		}
		return backoff.Permanent(err)
	}, policy, func(err error, next time.Duration) {
		uc.log.Warn().Err(err).Str("op", op).Dur("retry_in", next).Msg("fallo transitorio de almacenamiento, reintentando")
	})
	if err != nil && errors.Is(err, domain.ErrTransientStorage) {
		return fmt.Errorf("%w: %s: %v", domain.ErrStorageUnavailable, op, err)
	}
	return err
}
