package scheduler

import (
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/redston-maverick/global-price-scraper/scraper"
	"github.com/redston-maverick/global-price-scraper/services"
)

// Maintenance owns the process-wide periodic jobs: recycling the shared
// browser session and reloading exchange-rate overrides. Both schedules may
// be empty to disable the job.
type Maintenance struct {
	cron    *cron.Cron
	session *scraper.BrowserSession
	prices  *services.PriceService
	log     *zap.SugaredLogger

	recycleSchedule string
	rateSchedule    string
}

// NewMaintenance creates the maintenance scheduler.
func NewMaintenance(session *scraper.BrowserSession, prices *services.PriceService, recycleSchedule, rateSchedule string, log *zap.SugaredLogger) *Maintenance {
	return &Maintenance{
		cron:            cron.New(),
		session:         session,
		prices:          prices,
		log:             log,
		recycleSchedule: recycleSchedule,
		rateSchedule:    rateSchedule,
	}
}

// Start registers and starts the scheduled jobs.
func (m *Maintenance) Start() {
	if m.recycleSchedule != "" {
		if _, err := m.cron.AddFunc(m.recycleSchedule, m.session.Recycle); err != nil {
			m.log.Warnw("invalid browser recycle schedule", "schedule", m.recycleSchedule, "error", err)
		} else {
			m.log.Infow("browser recycle scheduled", "schedule", m.recycleSchedule)
		}
	}

	if m.rateSchedule != "" {
		if _, err := m.cron.AddFunc(m.rateSchedule, m.prices.ReloadRates); err != nil {
			m.log.Warnw("invalid rate reload schedule", "schedule", m.rateSchedule, "error", err)
		} else {
			m.log.Infow("exchange rate reload scheduled", "schedule", m.rateSchedule)
		}
	}

	m.cron.Start()
}

// Stop halts the scheduler. Running jobs finish; new ones are not started.
func (m *Maintenance) Stop() {
	m.cron.Stop()
}
