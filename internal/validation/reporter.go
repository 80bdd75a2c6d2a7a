package validation

import "github.com/cleared-dev/bulkutil/internal/model"

// Reporter observes validation progress. It must not influence the result.
type Reporter interface {
	RowsProcessed(table model.TableKind, done, total int)
}

// NopReporter ignores all progress updates.
type NopReporter struct{}

// RowsProcessed implements Reporter.
func (NopReporter) RowsProcessed(model.TableKind, int, int) {}

type progress struct {
	r     Reporter
	every int
	table model.TableKind
	total int
}

// tick is called after row done (1-based) has been processed.
func (p progress) tick(done int) {
	if done == p.total || done%p.every == 0 {
		p.r.RowsProcessed(p.table, done, p.total)
	}
}
