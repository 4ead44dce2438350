package monitoring

import (
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/cursus-lms/cursus-be/internal/services"
)

// Reconciler periodically re-derives cart totals from the live catalog
// prices so that price changes propagate to carts that have not been
// touched since. Mutations already recompute transactionally; this job
// only corrects drift on idle carts.
type Reconciler struct {
	cartSvc  services.CartServiceProvider
	eventSvc services.EventServiceProvider
	spec     string
	cron     *cron.Cron
}

// NewReconciler creates a reconciler with a standard cron spec.
func NewReconciler(cartSvc services.CartServiceProvider, eventSvc services.EventServiceProvider, spec string) *Reconciler {
	return &Reconciler{
		cartSvc:  cartSvc,
		eventSvc: eventSvc,
		spec:     spec,
		cron:     cron.New(),
	}
}

// Run registers the reconcile job and starts the cron loop. The job also
// runs once immediately so a restart picks up drift without waiting.
func (r *Reconciler) Run() error {
	if _, err := r.cron.AddFunc(r.spec, r.reconcile); err != nil {
		return err
	}
	log.Info().Str("cron", r.spec).Msg("Starting cart total reconciler")
	r.reconcile()
	r.cron.Start()
	return nil
}

// Stop halts the cron loop, waiting for a running job to finish.
func (r *Reconciler) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
	log.Info().Msg("Stopped cart total reconciler")
}

func (r *Reconciler) reconcile() {
	corrected, err := r.cartSvc.ReconcileTotals()
	if err != nil {
		log.Error().Err(err).Msg("Cart total reconciliation failed")
		return
	}
	if corrected == 0 {
		return
	}

	log.Info().Int64("carts", corrected).Msg("Reconciled drifted cart totals")
	if err := r.eventSvc.CreateEvent("cart.reconciled", "info",
		"Cart totals re-derived after catalog price changes", nil); err != nil {
		log.Error().Err(err).Msg("Failed to record reconcile event")
	}
}
