// Package editor implements the draft/collection engine behind the News and
// Event management screens.
package editor

import (
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/anndream/diucse-alumni-admin/internal/state"
)

var editorLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	editorLogger = l
}

// Kind describes one record type: its empty draft, how drafts are seeded,
// validated, turned into new records and merged into existing ones.
//
// Drafts are values. SetField and SetImage return the modified draft and
// must not mutate the one they were given.
type Kind[R any, D any] interface {
	Name() string

	EmptyDraft() D
	DraftFrom(r R) D
	DraftID(d D) (RecordID, bool)

	SetField(d D, field string, value any) (D, error)
	SetImage(d D, dataURL string) D

	Validate(d D) []FieldError
	Create(id RecordID, d D) R
	Merge(r R, d D) R

	ID(r R) RecordID
}

// Snapshot is the observable state of the draft side of an editor.
type Snapshot[D any] struct {
	Draft       D
	Editing     bool
	TargetID    RecordID
	FormVisible bool

	// Generation changes every time the draft is replaced wholesale
	// (open, edit, commit, cancel, reset).
	Generation uint64

	// Errors from the last failed commit; cleared when the draft is replaced.
	Errors []FieldError
}

// Ticket ties an image ingestion to the draft that was active when it began.
type Ticket struct {
	Generation uint64
}

// Editor owns one draft and one ordered collection of committed records.
// Subscribers registered on the stores must not call back into the Editor.
type Editor[R any, D any] struct {
	kind Kind[R, D]
	ids  *Sequence

	mu      sync.Mutex
	draft   *state.Store[Snapshot[D]]
	records *state.Store[[]R]
}

func New[R any, D any](kind Kind[R, D], ids *Sequence) *Editor[R, D] {
	if ids == nil {
		ids = NewSequence()
	}
	return &Editor[R, D]{
		kind:    kind,
		ids:     ids,
		draft:   state.NewStore(Snapshot[D]{Draft: kind.EmptyDraft()}),
		records: state.NewStore([]R{}),
	}
}

// Snapshot returns the current draft state.
func (e *Editor[R, D]) Snapshot() Snapshot[D] {
	return e.draft.Get()
}

// Records returns a copy of the committed records in collection order.
func (e *Editor[R, D]) Records() []R {
	return slices.Clone(e.records.Get())
}

func (e *Editor[R, D]) Len() int {
	return len(e.records.Get())
}

// Get returns the committed record with the given id.
func (e *Editor[R, D]) Get(id RecordID) (R, bool) {
	for _, r := range e.records.Get() {
		if e.kind.ID(r) == id {
			return r, true
		}
	}
	var zero R
	return zero, false
}

func (e *Editor[R, D]) SubscribeDraft(fn func(Snapshot[D])) (cancel func()) {
	return e.draft.Subscribe(fn)
}

func (e *Editor[R, D]) SubscribeRecords(fn func([]R)) (cancel func()) {
	return e.records.Subscribe(fn)
}

// OpenCreate shows an empty form in creating mode.
func (e *Editor[R, D]) OpenCreate() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.replaceDraft(func(s Snapshot[D]) Snapshot[D] {
		return Snapshot[D]{
			Draft:       e.kind.EmptyDraft(),
			FormVisible: true,
			Generation:  s.Generation + 1,
		}
	})
}

// StartEdit copies r into the draft and enters editing mode targeting r's id.
func (e *Editor[R, D]) StartEdit(r R) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.startEditLocked(r)
}

// StartEditByID looks the record up in the collection before editing it.
func (e *Editor[R, D]) StartEditByID(id RecordID) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	r, ok := e.Get(id)
	if !ok {
		return ErrNotFound
	}
	e.startEditLocked(r)
	return nil
}

func (e *Editor[R, D]) startEditLocked(r R) {
	id := e.kind.ID(r)
	e.replaceDraft(func(s Snapshot[D]) Snapshot[D] {
		return Snapshot[D]{
			Draft:       e.kind.DraftFrom(r),
			Editing:     true,
			TargetID:    id,
			FormVisible: true,
			Generation:  s.Generation + 1,
		}
	})

	editorLogger.Debug().Str("kind", e.kind.Name()).Stringer("id", id).Msg("Editing record")
}

// Set replaces exactly one field of the draft.
func (e *Editor[R, D]) Set(field string, value any) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.setLocked(field, value)
}

func (e *Editor[R, D]) setLocked(field string, value any) error {
	var setErr error
	e.draft.Update(func(s Snapshot[D]) Snapshot[D] {
		d, err := e.kind.SetField(s.Draft, field, value)
		if err != nil {
			setErr = err
			return s
		}
		s.Draft = d
		return s
	})
	return setErr
}

// Mutate applies fn to the draft. It is used for edits that are not a
// single field replacement, such as tag list changes.
func (e *Editor[R, D]) Mutate(fn func(D) D) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.mutateLocked(fn)
}

func (e *Editor[R, D]) mutateLocked(fn func(D) D) {
	e.draft.Update(func(s Snapshot[D]) Snapshot[D] {
		s.Draft = fn(s.Draft)
		return s
	})
}

func (e *Editor[R, D]) resetLocked() {
	e.replaceDraft(func(s Snapshot[D]) Snapshot[D] {
		s.Draft = e.kind.EmptyDraft()
		s.Errors = nil
		s.Generation++
		return s
	})
}

// Commit validates the draft and either merges it into the record being
// edited or appends a new record. On validation failure nothing but the
// snapshot's Errors changes and a *ValidationError is returned.
func (e *Editor[R, D]) Commit() (RecordID, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.commitLocked()
}

func (e *Editor[R, D]) commitLocked() (RecordID, error) {
	snap := e.draft.Get()

	if errs := e.kind.Validate(snap.Draft); len(errs) > 0 {
		e.draft.Update(func(s Snapshot[D]) Snapshot[D] {
			s.Errors = errs
			return s
		})
		verr := &ValidationError{Kind: e.kind.Name(), Fields: errs}
		editorLogger.Warn().Err(verr).Msg("Commit rejected")
		return 0, verr
	}

	var id RecordID
	target, hasTarget := e.targetOf(snap)
	if snap.Editing && hasTarget {
		id = target
		e.records.Update(func(rs []R) []R {
			next := make([]R, len(rs))
			for i, r := range rs {
				if e.kind.ID(r) == target {
					next[i] = e.kind.Merge(r, snap.Draft)
				} else {
					next[i] = r
				}
			}
			return next
		})
		editorLogger.Info().Str("kind", e.kind.Name()).Stringer("id", id).Msg("Record updated")
	} else {
		e.records.Update(func(rs []R) []R {
			id = e.nextIDLocked(rs)
			next := make([]R, len(rs), len(rs)+1)
			copy(next, rs)
			return append(next, e.kind.Create(id, snap.Draft))
		})
		editorLogger.Info().Str("kind", e.kind.Name()).Stringer("id", id).Msg("Record created")
	}

	e.closeForm()
	return id, nil
}

// Cancel discards the draft and hides the form. The collection is untouched.
func (e *Editor[R, D]) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.closeForm()
}

// Delete removes the record with the given id. It reports whether a record
// was removed; a missing id is a no-op.
func (e *Editor[R, D]) Delete(id RecordID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.Get(id); !ok {
		return false
	}

	e.records.Update(func(rs []R) []R {
		return slices.DeleteFunc(slices.Clone(rs), func(r R) bool {
			return e.kind.ID(r) == id
		})
	})
	editorLogger.Info().Str("kind", e.kind.Name()).Stringer("id", id).Msg("Record deleted")
	return true
}

// BeginIngest returns a ticket for the draft that is active right now.
func (e *Editor[R, D]) BeginIngest() Ticket {
	return Ticket{Generation: e.draft.Get().Generation}
}

// Pin binds draft operations to the draft t was issued for. Operations on a
// Pinned editor fail with ErrStaleDraft once that draft has been replaced.
func (e *Editor[R, D]) Pin(t Ticket) Pinned[R, D] {
	return Pinned[R, D]{e: e, t: t}
}

// Pinned is an Editor view whose operations only apply to one draft
// generation.
type Pinned[R any, D any] struct {
	e *Editor[R, D]
	t Ticket
}

func (p Pinned[R, D]) Ticket() Ticket {
	return p.t
}

// lock takes the editor lock and reports whether the pinned draft is still
// active. The caller must unlock.
func (p Pinned[R, D]) lock() bool {
	p.e.mu.Lock()
	if p.e.draft.Get().Generation != p.t.Generation {
		editorLogger.Warn().Str("kind", p.e.kind.Name()).Uint64("ticket", p.t.Generation).Msg("Rejecting operation on replaced draft")
		return false
	}
	return true
}

func (p Pinned[R, D]) Set(field string, value any) error {
	defer p.e.mu.Unlock()
	if !p.lock() {
		return ErrStaleDraft
	}
	return p.e.setLocked(field, value)
}

func (p Pinned[R, D]) Mutate(fn func(D) D) error {
	defer p.e.mu.Unlock()
	if !p.lock() {
		return ErrStaleDraft
	}
	p.e.mutateLocked(fn)
	return nil
}

func (p Pinned[R, D]) Commit() (RecordID, error) {
	defer p.e.mu.Unlock()
	if !p.lock() {
		return 0, ErrStaleDraft
	}
	return p.e.commitLocked()
}

// ResetDraft replaces the draft with the empty baseline without leaving the
// current mode.
func (p Pinned[R, D]) ResetDraft() error {
	defer p.e.mu.Unlock()
	if !p.lock() {
		return ErrStaleDraft
	}
	p.e.resetLocked()
	return nil
}

func (p Pinned[R, D]) Cancel() error {
	defer p.e.mu.Unlock()
	if !p.lock() {
		return ErrStaleDraft
	}
	p.e.closeForm()
	return nil
}

// CompleteIngest writes dataURL into the draft's image field unless the draft
// has been replaced since t was issued, in which case ErrStaleDraft is
// returned and nothing changes.
func (e *Editor[R, D]) CompleteIngest(t Ticket, dataURL string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	stale := false
	e.draft.Update(func(s Snapshot[D]) Snapshot[D] {
		if s.Generation != t.Generation {
			stale = true
			return s
		}
		s.Draft = e.kind.SetImage(s.Draft, dataURL)
		return s
	})
	if stale {
		editorLogger.Warn().Str("kind", e.kind.Name()).Uint64("ticket", t.Generation).Msg("Discarding image for replaced draft")
		return ErrStaleDraft
	}
	return nil
}

func (e *Editor[R, D]) targetOf(s Snapshot[D]) (RecordID, bool) {
	if id, ok := e.kind.DraftID(s.Draft); ok {
		return id, true
	}
	if s.Editing && s.TargetID != 0 {
		return s.TargetID, true
	}
	return 0, false
}

func (e *Editor[R, D]) nextIDLocked(rs []R) RecordID {
	for {
		id := e.ids.Next()
		if !slices.ContainsFunc(rs, func(r R) bool { return e.kind.ID(r) == id }) {
			return id
		}
	}
}

func (e *Editor[R, D]) closeForm() {
	e.replaceDraft(func(s Snapshot[D]) Snapshot[D] {
		return Snapshot[D]{
			Draft:      e.kind.EmptyDraft(),
			Generation: s.Generation + 1,
		}
	})
}

func (e *Editor[R, D]) replaceDraft(fn func(Snapshot[D]) Snapshot[D]) {
	e.draft.Update(fn)
}
