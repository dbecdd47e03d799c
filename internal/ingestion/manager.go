package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/mr1hm/safemap/internal/broadcast"
	"github.com/mr1hm/safemap/internal/config"
	"github.com/mr1hm/safemap/internal/models"
	"github.com/mr1hm/safemap/internal/repository"
	"github.com/mr1hm/safemap/internal/scoring"
	"github.com/mr1hm/safemap/internal/worker"
)

// Candidate is an article waiting to be classified into an alert.
type Candidate struct {
	Article  models.NewsArticle
	Location string // empty means Global
	Source   string // poller name, for logging
}

type FetchFunc func(ctx context.Context) ([]Candidate, error)

type Poller struct {
	Name     string
	Interval time.Duration
	Fetch    FetchFunc
}

type Manager struct {
	cfg         *config.Config
	repo        repository.AlertRepository
	broadcaster *broadcast.Broadcaster
	pollers     []Poller
	pool        *worker.Pool[Candidate]
	wg          sync.WaitGroup
	now         func() time.Time
}

func NewManager(cfg *config.Config, repo repository.AlertRepository, broadcaster *broadcast.Broadcaster, pollers ...Poller) *Manager {
	return &Manager{
		cfg:         cfg,
		repo:        repo,
		broadcaster: broadcaster,
		pollers:     pollers,
		now:         time.Now,
	}
}

func (m *Manager) Start(ctx context.Context) {
	m.pool = worker.NewPool(m.cfg.Worker.Count, m.cfg.Worker.BufferSize, m.process)
	m.pool.Start(ctx)

	for _, p := range m.pollers {
		m.wg.Add(1)
		go m.runPoller(ctx, p)
	}
}

func (m *Manager) process(ctx context.Context, c Candidate) error {
	alert := scoring.BuildAlert(c.Article, c.Location)

	exists, err := m.repo.Exists(ctx, alert.ID)
	if err != nil {
		slog.Error("error checking existence", "id", alert.ID, "error", err)
		return err
	}
	if exists {
		return nil
	}

	alert.CreatedAt = m.now()
	if err := m.repo.Add(ctx, &alert); err != nil {
		slog.Error("error adding alert", "id", alert.ID, "error", err)
		return err
	}

	if m.broadcaster != nil {
		m.broadcaster.Broadcast(&alert)
	}

	slog.Info("added alert", "id", alert.ID, "severity", alert.Severity, "type", alert.Type, "source", c.Source)
	return nil
}

func (m *Manager) runPoller(ctx context.Context, p Poller) {
	defer m.wg.Done()
	slog.Info("starting poller", "source", p.Name, "interval", p.Interval)

	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	// Initial poll
	m.poll(ctx, p)

	for {
		select {
		case <-ctx.Done():
			slog.Info("poller shutting down", "source", p.Name)
			return
		case <-ticker.C:
			m.poll(ctx, p)
		}
	}
}

func (m *Manager) poll(ctx context.Context, p Poller) {
	slog.Debug("polling", "source", p.Name)

	candidates, err := p.Fetch(ctx)
	if err != nil {
		slog.Error("poll failed", "source", p.Name, "error", err)
		return
	}

	submitted := 0
	for _, c := range candidates {
		if skipArticle(c.Article) {
			continue
		}
		if c.Source == "" {
			c.Source = p.Name
		}
		if !m.pool.Submit(ctx, c) {
			return
		}
		submitted++
	}

	m.prune(ctx)
	slog.Debug("poll complete", "source", p.Name, "count", submitted)
}

func (m *Manager) prune(ctx context.Context) {
	if m.cfg.Alerts.Retention <= 0 {
		return
	}
	n, err := m.repo.Prune(ctx, m.now().Add(-m.cfg.Alerts.Retention))
	if err != nil {
		slog.Error("prune failed", "error", err)
		return
	}
	if n > 0 {
		slog.Info("pruned old alerts", "count", n)
	}
}

// Stats reports worker throughput; zero before Start.
func (m *Manager) Stats() worker.Stats {
	if m.pool == nil {
		return worker.Stats{}
	}
	return m.pool.Stats()
}

// Stop waits for the pollers to exit, then drains the pool. Cancel the
// context given to Start first.
func (m *Manager) Stop() {
	m.wg.Wait()
	if m.pool != nil {
		m.pool.Stop()
	}
	slog.Info("ingestion manager stopped")
}

// skipArticle drops entries that carry nothing to classify, such as
// NewsAPI's "[Removed]" tombstones.
func skipArticle(a models.NewsArticle) bool {
	if a.Title == "" && a.Description == "" {
		return true
	}
	return a.Title == "[Removed]"
}
