package campaign

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/octobees/webdone/internal/entity"
)

// ErrBusy is returned when the concurrent-campaign cap is reached.
var ErrBusy = errors.New("campaign limit reached, try again later")

// LeadFinder locates businesses without a website.
type LeadFinder interface {
	FindLeads(ctx context.Context, location, query string, limit int) ([]entity.Lead, error)
}

// PageGenerator produces and stores a page for a lead.
type PageGenerator interface {
	Generate(ctx context.Context, lead entity.Lead) (entity.SiteMeta, string, error)
}

// CallDispatcher places the presentation call for a generated page.
type CallDispatcher interface {
	PlaceCall(ctx context.Context, lead entity.Lead, siteID string) entity.CallResult
}

// Campaign is the handle for one running campaign.
type Campaign struct {
	ID     string
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel requests cooperative cancellation; the loop stops between leads.
func (c *Campaign) Cancel() { c.cancel() }

// Done is closed when the campaign loop has finished.
func (c *Campaign) Done() <-chan struct{} { return c.done }

// Runner executes lead-to-call campaigns on background goroutines,
// bounded by a weighted semaphore so operator misuse cannot grow
// unbounded work.
type Runner struct {
	finder    LeadFinder
	generator PageGenerator
	dialer    CallDispatcher
	publicURL string
	delay     time.Duration
	slots     *semaphore.Weighted
}

// NewRunner wires a campaign runner. maxRunning caps concurrently
// executing campaigns; delay is the pause between leads.
func NewRunner(finder LeadFinder, generator PageGenerator, dialer CallDispatcher, publicURL string, delay time.Duration, maxRunning int) *Runner {
	if maxRunning <= 0 {
		maxRunning = 2
	}
	if delay <= 0 {
		delay = 5 * time.Second
	}
	return &Runner{
		finder:    finder,
		generator: generator,
		dialer:    dialer,
		publicURL: strings.TrimRight(publicURL, "/"),
		delay:     delay,
		slots:     semaphore.NewWeighted(int64(maxRunning)),
	}
}

// Start validates the request, claims a slot and launches the campaign
// loop. report receives human-readable progress lines.
func (r *Runner) Start(ctx context.Context, query, location string, limit int, report func(string)) (*Campaign, error) {
	query = strings.TrimSpace(query)
	location = strings.TrimSpace(location)
	if query == "" || location == "" {
		return nil, errors.New("query and location are required")
	}
	if limit <= 0 {
		limit = 5
	}
	if report == nil {
		report = func(string) {}
	}

	if !r.slots.TryAcquire(1) {
		return nil, ErrBusy
	}

	runCtx, cancel := context.WithCancel(ctx)
	c := &Campaign{
		ID:     strings.ToUpper(uuid.NewString()[:8]),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer r.slots.Release(1)
		defer close(c.done)
		defer cancel()
		r.run(runCtx, c.ID, query, location, limit, report)
	}()

	return c, nil
}

func (r *Runner) run(ctx context.Context, id, query, location string, limit int, report func(string)) {
	log.Printf("campaign: started id=%s query=%q location=%q limit=%d", id, query, location, limit)

	leads, err := r.finder.FindLeads(ctx, location, query, limit)
	if err != nil {
		report(fmt.Sprintf("Campania s-a oprit: %v", err))
		log.Printf("campaign: aborted id=%s err=%v", id, err)
		return
	}
	report(fmt.Sprintf("Am gasit %d afaceri fara site pentru %q in %s.", len(leads), query, location))

	for i, lead := range leads {
		if ctx.Err() != nil {
			report("Campania a fost oprita.")
			log.Printf("campaign: cancelled id=%s processed=%d", id, i)
			return
		}

		if err := r.processLead(ctx, lead, report); err != nil {
			report(fmt.Sprintf("Eroare la %s: %v — trec la urmatorul lead.", lead.Name, err))
			log.Printf("campaign: lead failed id=%s biz=%s err=%v", id, lead.Name, err)
		}

		if i < len(leads)-1 && !r.pause(ctx) {
			report("Campania a fost oprita.")
			log.Printf("campaign: cancelled id=%s processed=%d", id, i+1)
			return
		}
	}

	report("Campania s-a incheiat.")
	log.Printf("campaign: finished id=%s leads=%d", id, len(leads))
}

func (r *Runner) processLead(ctx context.Context, lead entity.Lead, report func(string)) error {
	meta, _, err := r.generator.Generate(ctx, lead)
	if err != nil {
		return err
	}
	report(fmt.Sprintf("%s — site generat: %s/demos/%s (cod %s)", lead.Name, r.publicURL, meta.Filename, meta.ID))

	result := r.dialer.PlaceCall(ctx, lead, meta.ID)
	switch result.Status {
	case entity.CallStatusRegistered:
		report(fmt.Sprintf("%s — apel pornit (id %s).", lead.Name, result.CallID))
	case entity.CallStatusDryRun:
		report(fmt.Sprintf("%s — simulare apel: %s", lead.Name, result.Message))
	default:
		report(fmt.Sprintf("%s — apelul a esuat: %s%s", lead.Name, result.Message, result.Error))
	}
	return nil
}

// pause waits the configured delay, returning false on cancellation.
func (r *Runner) pause(ctx context.Context) bool {
	timer := time.NewTimer(r.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
