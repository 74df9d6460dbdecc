package panel

import (
	"context"
	"errors"
	"sync"

	"github.com/rogerio-castellano/storefront-console/internal/apiclient"
	"github.com/rogerio-castellano/storefront-console/internal/logger"
	"go.uber.org/zap"
)

// ErrUnknownItem is returned when an id does not match any listed item.
var ErrUnknownItem = errors.New("panel: unknown item")

// Panel is the state of one mounted admin table. Every failure ends up in the
// error banner; nothing is retried. Once unmounted, late results are dropped.
type Panel[T any] struct {
	res Resource[T]
	api API

	mu        sync.Mutex
	items     []T
	options   []Option
	draft     T
	editingID string
	errMsg    string
	loading   int
	seq       uint64
	mounted   bool
	disposed  bool
}

func New[T any](res Resource[T], api API) *Panel[T] {
	return &Panel[T]{res: res, api: api, items: []T{}}
}

func (p *Panel[T]) Name() string {
	return p.res.Name
}

// Mount fetches the collection the first time the panel is shown.
func (p *Panel[T]) Mount(ctx context.Context) {
	p.mu.Lock()
	if p.mounted || p.disposed {
		p.mu.Unlock()
		return
	}
	p.mounted = true
	p.mu.Unlock()

	p.Refresh(ctx)
}

// Unmount disposes the panel. Requests still in flight complete but their
// results are discarded.
func (p *Panel[T]) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disposed = true
}

// begin marks a request in flight. It reports false once the panel is disposed.
func (p *Panel[T]) begin() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return false
	}
	p.loading++
	return true
}

// finish must be called with p.mu held. It reports whether results may still be applied.
func (p *Panel[T]) finish() bool {
	p.loading--
	return !p.disposed
}

// Refresh replaces the items with the current collection. On failure the
// previous items stay and the banner is set.
func (p *Panel[T]) Refresh(ctx context.Context) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.loading++
	p.seq++
	seq := p.seq
	p.mu.Unlock()

	items, options, msg, ok := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.finish() || seq != p.seq {
		return
	}
	if !ok {
		p.errMsg = msg
		return
	}
	p.items = items
	p.options = options
	p.errMsg = msg
}

// fetch reports ok=false when the list could not be loaded.
func (p *Panel[T]) fetch(ctx context.Context) (items []T, options []Option, msg string, ok bool) {
	log := logger.FromContext(ctx).With(zap.String("panel", p.res.Name))

	resp, err := p.api.Get(ctx, p.res.Path)
	if err != nil {
		return nil, nil, p.res.Messages.Fetch, false
	}
	items, err = p.res.Decode(resp.Body)
	if errors.Is(err, ErrNoRecords) {
		return nil, nil, p.res.Messages.NoRecords, false
	}
	if err != nil {
		log.Warn("unexpected list response", zap.Error(err))
		return nil, nil, p.res.Messages.Fetch, false
	}

	if p.res.Enrich == nil {
		return items, nil, "", true
	}
	items, options, err = p.res.Enrich(ctx, p.api, items)
	if err != nil {
		log.Warn("enriching list", zap.Error(err))
		return items, options, err.Error(), true
	}
	return items, options, "", true
}

// SubmitCreate validates draft and POSTs it. On success the list is re-fetched
// and the draft cleared; on failure the draft is kept for correction.
func (p *Panel[T]) SubmitCreate(ctx context.Context, draft T) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.draft = draft
	if !p.res.CanCreate {
		p.errMsg = p.res.Messages.CreateDisabled
		p.mu.Unlock()
		return
	}
	if p.res.Validate != nil && p.res.Validate(draft) != nil {
		p.errMsg = p.res.Messages.Invalid
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	if !p.begin() {
		return
	}
	resp, err := p.api.Post(ctx, p.res.Path, draft)

	p.mu.Lock()
	if !p.finish() {
		p.mu.Unlock()
		return
	}
	if msg := p.mutationFailure(resp, err, p.res.Messages.Create, p.res.Messages.CreateRejected); msg != "" {
		p.errMsg = msg
		p.mu.Unlock()
		return
	}
	p.errMsg = ""
	p.mu.Unlock()

	p.Refresh(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.disposed {
		var zero T
		p.draft = zero
	}
}

// StartEdit copies item into the draft and remembers which record is edited.
func (p *Panel[T]) StartEdit(item T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return
	}
	p.draft = item
	p.editingID = p.res.Key(item)
}

// EditByID starts editing the listed item with the given id.
func (p *Panel[T]) EditByID(id string) error {
	item, ok := p.find(id)
	if !ok {
		return ErrUnknownItem
	}
	p.StartEdit(item)
	return nil
}

func (p *Panel[T]) find(id string) (T, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, item := range p.items {
		if p.res.Key(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// SubmitUpdate validates draft and PUTs it to the record being edited. It does
// nothing when no record is being edited.
func (p *Panel[T]) SubmitUpdate(ctx context.Context, draft T) {
	p.mu.Lock()
	if p.disposed || p.editingID == "" {
		p.mu.Unlock()
		return
	}
	id := p.editingID
	p.draft = draft
	if p.res.Validate != nil && p.res.Validate(draft) != nil {
		p.errMsg = p.res.Messages.Invalid
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	var body any = draft
	if p.res.UpdateBody != nil {
		body = p.res.UpdateBody(draft)
	}

	if !p.begin() {
		return
	}
	resp, err := p.api.Put(ctx, apiclient.ItemPath(p.res.Path, id), body)

	p.mu.Lock()
	if !p.finish() {
		p.mu.Unlock()
		return
	}
	if msg := p.mutationFailure(resp, err, p.res.Messages.Update, p.res.Messages.UpdateRejected); msg != "" {
		p.errMsg = msg
		p.mu.Unlock()
		return
	}
	p.errMsg = ""
	p.mu.Unlock()

	p.Refresh(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.disposed && p.editingID == id {
		var zero T
		p.editingID = ""
		p.draft = zero
	}
}

// Remove DELETEs the record and drops it from the local list without re-fetching.
func (p *Panel[T]) Remove(ctx context.Context, id string) {
	if !p.begin() {
		return
	}
	resp, err := p.api.Delete(ctx, apiclient.ItemPath(p.res.Path, id))

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.finish() {
		return
	}
	if msg := p.mutationFailure(resp, err, p.res.Messages.Delete, p.res.Messages.DeleteRejected); msg != "" {
		p.errMsg = msg
		return
	}

	kept := make([]T, 0, len(p.items))
	for _, item := range p.items {
		if p.res.Key(item) != id {
			kept = append(kept, item)
		}
	}
	p.items = kept
	p.errMsg = ""
	if p.editingID == id {
		var zero T
		p.editingID = ""
		p.draft = zero
	}
}

// CancelEdit drops the draft and leaves edit mode.
func (p *Panel[T]) CancelEdit() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return
	}
	var zero T
	p.draft = zero
	p.editingID = ""
	p.errMsg = ""
}

// ShowError puts msg in the panel's error banner.
func (p *Panel[T]) ShowError(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return
	}
	p.errMsg = msg
}

func (p *Panel[T]) mutationFailure(resp *apiclient.Response, err error, failed, rejected string) string {
	if err != nil {
		return failed
	}
	if p.res.Accept != nil && !p.res.Accept(resp.Body) {
		return rejected
	}
	return ""
}

// State is a copy of everything the view needs.
type State[T any] struct {
	Items     []T
	Options   []Option
	Draft     T
	EditingID string
	Error     string
	Loading   bool
}

func (p *Panel[T]) Snapshot() State[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State[T]{
		Items:     append([]T(nil), p.items...),
		Options:   append([]Option(nil), p.options...),
		Draft:     p.draft,
		EditingID: p.editingID,
		Error:     p.errMsg,
		Loading:   p.loading > 0,
	}
}
