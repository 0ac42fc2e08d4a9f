package workflowstatus

import (
	"context"
	"time"

	"github.com/MarcGrol/workersdeploy/lib/mylog"
	"github.com/MarcGrol/workersdeploy/services/githubapi"
)

const DefaultTick = 5 * time.Second

type Poller struct {
	github githubapi.Client
	tick   time.Duration
	logger mylog.Logger
}

func NewPoller(github githubapi.Client, tick time.Duration) *Poller {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Poller{
		github: github,
		tick:   tick,
		logger: mylog.New("workflowstatus"),
	}
}

// Handle controls a running poll loop.
type Handle struct {
	updates chan Update
	done    chan struct{}
	cancel  context.CancelFunc
	last    Update
}

// Updates delivers every status change; the channel is closed when the loop ends.
func (h *Handle) Updates() <-chan Update {
	return h.updates
}

// Done is closed when the loop has ended, either by reaching a final status or by being stopped.
func (h *Handle) Done() <-chan struct{} {
	return h.done
}

// Stop ends the loop and waits for it.
func (h *Handle) Stop() {
	h.cancel()
	<-h.done
}

// Last returns the most recent update; only safe to call after Done is closed.
func (h *Handle) Last() Update {
	return h.last
}

// Start follows the deployment workflow of the given repository in the background.
func (p *Poller) Start(c context.Context, token string, fullName string) *Handle {
	ctx, cancel := context.WithCancel(c)
	h := &Handle{
		updates: make(chan Update, 8),
		done:    make(chan struct{}),
		cancel:  cancel,
		last:    Update{Status: StatusPending},
	}

	go func() {
		defer close(h.done)
		defer close(h.updates)
		defer cancel()

		p.run(ctx, token, fullName, h)
	}()

	return h
}

func (p *Poller) run(c context.Context, token string, fullName string, h *Handle) {
	report := func(u Update) bool {
		if u.Status == h.last.Status && u.RunID == h.last.RunID && u.Err == nil {
			return true
		}
		h.last = u
		select {
		case h.updates <- u:
			return true
		case <-c.Done():
			return false
		}
	}
	fail := func(err error) {
		p.logger.Log(c, fullName, mylog.SeverityWarn, "Stop polling %s: %s", fullName, err)
		report(Update{Status: StatusError, RunID: h.last.RunID, RunURL: h.last.RunURL, Err: err})
	}

	var workflowID int64
	for {
		workflows, err := p.github.ListWorkflows(c, token, fullName)
		if err != nil {
			fail(err)
			return
		}
		if len(workflows) > 0 {
			workflowID = workflows[0].ID
			break
		}
		if !p.wait(c) {
			return
		}
	}

	var runID int64
	for {
		runs, err := p.github.ListWorkflowRuns(c, token, fullName, workflowID)
		if err != nil {
			fail(err)
			return
		}
		if len(runs) > 0 {
			run := newestRun(runs)
			runID = run.ID
			if !report(Update{Status: Classify(run), RunID: run.ID, RunURL: run.HTMLURL}) {
				return
			}
			if h.last.Status.IsFinal() {
				return
			}
			break
		}
		if !p.wait(c) {
			return
		}
	}

	for {
		if !p.wait(c) {
			return
		}
		run, err := p.github.GetWorkflowRun(c, token, fullName, runID)
		if err != nil {
			fail(err)
			return
		}
		status := Classify(run)
		if !report(Update{Status: status, RunID: run.ID, RunURL: run.HTMLURL}) {
			return
		}
		if status.IsFinal() {
			p.logger.Log(c, fullName, mylog.SeverityInfo, "Run %d of %s ended: %s", runID, fullName, status)
			return
		}
	}
}

func (p *Poller) wait(c context.Context) bool {
	timer := time.NewTimer(p.tick)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-c.Done():
		return false
	}
}
