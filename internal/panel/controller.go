package panel

import (
	"context"
	"net/url"
	"reflect"

	"github.com/gorilla/schema"
	"github.com/rogerio-castellano/storefront-console/internal/models"
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(models.CategoryRef{}, func(s string) reflect.Value {
		return reflect.ValueOf(models.CategoryRef{ID: s})
	})
	return d
}

// Controller is a Panel with its entity type erased, as the HTTP layer and
// templates use it.
type Controller interface {
	Name() string
	Mount(ctx context.Context)
	Unmount()
	Refresh(ctx context.Context)
	CreateFromForm(ctx context.Context, form url.Values)
	UpdateFromForm(ctx context.Context, form url.Values)
	EditByID(id string) error
	Remove(ctx context.Context, id string)
	CancelEdit()
	ShowError(msg string)
	View() View
}

// View is a Snapshot for templates. Items holds a []T and Draft a T.
type View struct {
	Name       string
	Singular   string
	Items      any
	Count      int
	Options    []Option
	Draft      any
	EditingID  string
	Editing    bool
	Error      string
	Loading    bool
	CanCreate  bool
	EmptyTable string
}

// CreateFromForm binds a new draft from submitted form values and creates it.
// Values that cannot be bound count as a validation failure.
func (p *Panel[T]) CreateFromForm(ctx context.Context, form url.Values) {
	var draft T
	if err := formDecoder.Decode(&draft, form); err != nil {
		p.reject(draft)
		return
	}
	p.SubmitCreate(ctx, draft)
}

// UpdateFromForm overlays the submitted values on the draft being edited and
// saves it.
func (p *Panel[T]) UpdateFromForm(ctx context.Context, form url.Values) {
	p.mu.Lock()
	draft := p.draft
	editing := p.editingID != ""
	p.mu.Unlock()
	if !editing {
		return
	}

	if err := formDecoder.Decode(&draft, form); err != nil {
		p.reject(draft)
		return
	}
	p.SubmitUpdate(ctx, draft)
}

func (p *Panel[T]) reject(draft T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return
	}
	p.draft = draft
	p.errMsg = p.res.Messages.Invalid
}

func (p *Panel[T]) View() View {
	s := p.Snapshot()
	items := s.Items
	if items == nil {
		items = []T{}
	}
	return View{
		Name:       p.res.Name,
		Singular:   p.res.Singular,
		Items:      items,
		Count:      len(items),
		Options:    s.Options,
		Draft:      s.Draft,
		EditingID:  s.EditingID,
		Editing:    s.EditingID != "",
		Error:      s.Error,
		Loading:    s.Loading,
		CanCreate:  p.res.CanCreate,
		EmptyTable: p.res.Messages.EmptyTable,
	}
}

var _ Controller = (*Panel[models.Category])(nil)
