package dashboard

import (
	"context"
	"sync"
	"time"
)

// ResultEntry records one completed widget interaction. Chart widgets and the
// recent-results feed are fed from these entries.
type ResultEntry struct {
	Widget   string
	Viewer   string
	At       time.Time
	Value    float64
	Severity Severity
	Failed   bool
}

// ResultFeed exposes recorded results for the current viewer.
type ResultFeed interface {
	Recent(ctx context.Context, viewer ViewerContext, limit int) ([]ResultEntry, error)
}

// ResultLog is an in-memory, bounded record of widget results.
type ResultLog struct {
	mu      sync.RWMutex
	limit   int
	entries []ResultEntry
}

// NewResultLog creates a log that keeps at most limit entries per viewer.
func NewResultLog(limit int) *ResultLog {
	if limit <= 0 {
		limit = 100
	}
	return &ResultLog{limit: limit}
}

// Append records an entry, evicting the oldest once past the cap.
func (l *ResultLog) Append(entry ResultEntry) {
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, entry)
	if len(l.entries) > l.limit {
		l.entries = l.entries[len(l.entries)-l.limit:]
	}
}

// Recent returns up to limit newest entries for the viewer, newest last.
func (l *ResultLog) Recent(_ context.Context, viewer ViewerContext, limit int) ([]ResultEntry, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var out []ResultEntry
	for _, entry := range l.entries {
		if entry.Viewer != "" && viewer.UserID != "" && entry.Viewer != viewer.UserID {
			continue
		}
		out = append(out, entry)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}

// ForWidget filters recent entries down to one widget's successful results.
func (l *ResultLog) ForWidget(ctx context.Context, viewer ViewerContext, widget string, limit int) ([]ResultEntry, error) {
	entries, err := l.Recent(ctx, viewer, 0)
	if err != nil {
		return nil, err
	}
	var out []ResultEntry
	for _, entry := range entries {
		if entry.Widget != widget || entry.Failed {
			continue
		}
		out = append(out, entry)
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out, nil
}
