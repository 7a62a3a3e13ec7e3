package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yeremiapane/qr-menu-builder/models"
	"github.com/yeremiapane/qr-menu-builder/repositories"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

const scanWriteTimeout = 5 * time.Second

type ScanEvent struct {
	TableID   string
	UserAgent string
	At        time.Time
}

// ScanLogger records table visits in the background. Log never blocks the
// caller: when the queue is full the event is dropped and counted.
type ScanLogger struct {
	scans   repositories.TableScanRepository
	queue   chan ScanEvent
	workers int

	// OnError is called after a failed write, once the failure is logged.
	OnError func(ScanEvent, error)

	mu      sync.RWMutex
	closed  bool
	started bool
	wg      sync.WaitGroup
	dropped atomic.Int64
}

func NewScanLogger(scans repositories.TableScanRepository, queueSize, workers int) *ScanLogger {
	if queueSize <= 0 {
		queueSize = 1
	}
	if workers <= 0 {
		workers = 1
	}
	return &ScanLogger{
		scans:   scans,
		queue:   make(chan ScanEvent, queueSize),
		workers: workers,
	}
}

func (l *ScanLogger) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.started || l.closed {
		return
	}
	l.started = true
	for i := 0; i < l.workers; i++ {
		l.wg.Add(1)
		go l.run()
	}
	utils.InfoLogger.Infof("scan logger started with %d workers", l.workers)
}

// Stop refuses new events, drains the queue and waits for the workers.
func (l *ScanLogger) Stop() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.queue)
	started := l.started
	l.mu.Unlock()

	if !started {
		for ev := range l.queue {
			l.write(ev)
		}
		return
	}
	l.wg.Wait()
}

// Log queues one visit for tableID. It reports whether the event was
// accepted.
func (l *ScanLogger) Log(tableID, userAgent string) bool {
	ev := ScanEvent{TableID: tableID, UserAgent: userAgent, At: time.Now().UTC()}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.drop(ev, "logger stopped")
		return false
	}
	select {
	case l.queue <- ev:
		return true
	default:
		l.drop(ev, "queue full")
		return false
	}
}

func (l *ScanLogger) Dropped() int64 {
	return l.dropped.Load()
}

func (l *ScanLogger) drop(ev ScanEvent, reason string) {
	l.dropped.Add(1)
	utils.ErrorLogger.WithField("table_id", ev.TableID).Warnf("scan dropped: %s", reason)
}

func (l *ScanLogger) run() {
	defer l.wg.Done()
	for ev := range l.queue {
		l.write(ev)
	}
}

func (l *ScanLogger) write(ev ScanEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), scanWriteTimeout)
	defer cancel()

	scan := &models.TableScan{TableID: ev.TableID, ScannedAt: ev.At}
	if ev.UserAgent != "" {
		ua := ev.UserAgent
		scan.UserAgent = &ua
	}
	if err := l.scans.Create(ctx, scan); err != nil {
		utils.ErrorLogger.WithField("table_id", ev.TableID).Errorf("failed to record scan: %v", err)
		if l.OnError != nil {
			l.OnError(ev, err)
		}
	}
}
