package inbox

import "medreview/pkg/model"

// Repository owns the client-side view of the report collection. It is
// mutated only from the UI event loop: refresh results are reconciled there
// and optimistic patches are applied there, so no two mutations interleave
// and no locking is needed.
type Repository struct {
	reports []model.Report
	index   map[string]int
}

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{index: make(map[string]int)}
}

// Len returns the number of reports held.
func (repo *Repository) Len() int {
	return len(repo.reports)
}

// Reports returns the collection in store order. Callers must treat the
// slice as read-only; mutations go through ApplyLocal.
func (repo *Repository) Reports() []model.Report {
	return repo.reports
}

// Get returns a copy of the report with the given ID.
func (repo *Repository) Get(id string) (model.Report, bool) {
	i, ok := repo.index[id]
	if !ok {
		return model.Report{}, false
	}
	return repo.reports[i].Clone(), true
}

// Reconcile replaces the collection with a fresh snapshot from the store,
// keeping the incoming order. Records with an unconfirmed local write are
// carried over unchanged: a refresh that raced an optimistic patch must not
// clobber the newer local value. The carried record keeps its position in
// the fresh snapshot; a pending record the store no longer returns is
// dropped with the rest.
func (repo *Repository) Reconcile(fresh []model.Report) {
	pending := make(map[string]model.Report)
	for i := range repo.reports {
		if repo.reports[i].PendingWrite {
			pending[repo.reports[i].ID] = repo.reports[i]
		}
	}

	repo.reports = make([]model.Report, 0, len(fresh))
	repo.index = make(map[string]int, len(fresh))
	for i := range fresh {
		r := fresh[i]
		if kept, ok := pending[r.ID]; ok {
			r = kept
		}
		repo.index[r.ID] = len(repo.reports)
		repo.reports = append(repo.reports, r)
	}
}

// ApplyLocal merges a patch into the local record and marks it as having an
// unconfirmed write. Returns the updated report. The remote PATCH is issued
// separately; the merge is synchronous so the view updates immediately.
func (repo *Repository) ApplyLocal(id string, p Patch) (model.Report, bool) {
	i, ok := repo.index[id]
	if !ok {
		return model.Report{}, false
	}
	p.apply(&repo.reports[i])
	repo.reports[i].PendingWrite = true
	repo.reports[i].Divergent = false
	return repo.reports[i].Clone(), true
}

// ResolvePending settles the write marker for a report once its remote
// patch finished. On success the marker clears; on failure the record stays
// pending and is flagged divergent so the view can show that the store
// disagrees until a later refresh lands cleanly.
func (repo *Repository) ResolvePending(id string, ok bool) {
	i, found := repo.index[id]
	if !found {
		return
	}
	if ok {
		repo.reports[i].PendingWrite = false
		repo.reports[i].Divergent = false
		return
	}
	repo.reports[i].Divergent = true
}

// AcceptDivergence drops the pending marker on a divergent record so the
// next refresh may overwrite it with the store's value.
func (repo *Repository) AcceptDivergence(id string) {
	i, found := repo.index[id]
	if !found {
		return
	}
	if repo.reports[i].Divergent {
		repo.reports[i].PendingWrite = false
		repo.reports[i].Divergent = false
	}
}
