// Package browser implements a tabular record browser: a remotely fetched
// collection with single-column search, single-key sort, row selection,
// inline editing and deletion. Filtering and sorting are pure functions of
// the collection and the view state; the Browser type owns both and
// reconciles local state with the results of remote calls.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/MonikaTammineni/fsadproject/apierr"
	"github.com/MonikaTammineni/fsadproject/notify"
)

var (
	ErrClosed        = errors.New("browser closed")
	ErrStale         = errors.New("response superseded by a newer fetch")
	ErrNotFound      = errors.New("record not found")
	ErrNoSelection   = errors.New("no record selected")
	ErrNoEdit        = errors.New("no edit in progress")
	ErrReadOnly      = errors.New("view is read-only")
	ErrEditing       = errors.New("finish or cancel the current edit first")
	ErrNotConfirmed  = errors.New("action not confirmed")
	ErrNotEditable   = errors.New("field is not editable")
	ErrUnknownColumn = errors.New("unknown column")
)

// Source lists the records of a view.
type Source interface {
	List(ctx context.Context) ([]Record, error)
}

// SourceFunc adapts a function to a Source.
type SourceFunc func(ctx context.Context) ([]Record, error)

// List implements Source.
func (f SourceFunc) List(ctx context.Context) ([]Record, error) { return f(ctx) }

// UpdateResult is the outcome of a successful update. Record is nil when the
// server acknowledged without returning a usable body. Message, when set,
// replaces the default success notification.
type UpdateResult struct {
	Record  Record
	Message string
}

// Updater persists an edited record.
type Updater interface {
	Update(ctx context.Context, rec Record) (UpdateResult, error)
}

// UpdaterFunc adapts a function to an Updater.
type UpdaterFunc func(ctx context.Context, rec Record) (UpdateResult, error)

// Update implements Updater.
func (f UpdaterFunc) Update(ctx context.Context, rec Record) (UpdateResult, error) {
	return f(ctx, rec)
}

// Deleter removes a record by identifier.
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// DeleterFunc adapts a function to a Deleter.
type DeleterFunc func(ctx context.Context, id string) error

// Delete implements Deleter.
func (f DeleterFunc) Delete(ctx context.Context, id string) error { return f(ctx, id) }

// ConfirmFunc asks the operator to confirm a destructive action on rec.
type ConfirmFunc func(rec Record) bool

// FetchState tracks the fetch lifecycle.
type FetchState int

const (
	Idle FetchState = iota
	Loading
	Loaded
	Errored
)

func (s FetchState) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Errored:
		return "errored"
	default:
		return "idle"
	}
}

// ViewState is the ephemeral search, sort, selection and edit state.
type ViewState struct {
	SearchColumn string
	Query        string
	SortKey      string
	SortDir      Direction
	SelectedID   string
	EditID       string
}

// View is a consistent snapshot for rendering.
type View struct {
	State ViewState
	Fetch FetchState
	Err   error
	// Rows is the filtered and sorted collection.
	Rows []Record
	// Total is the size of the unfiltered collection.
	Total int
	Busy  bool
}

// Browser owns one collection and its view state. It is safe for
// concurrent use; the lock is never held across remote calls.
type Browser struct {
	schema   Schema
	updater  Updater
	deleter  Deleter
	notifier notify.Sink
	log      zerolog.Logger
	now      func() time.Time

	life   context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	source    Source
	records   []Record
	fetch     FetchState
	fetchErr  error
	gen       uint64
	view      ViewState
	edit      Record
	editBase  any
	fieldErrs map[string]string
	busy      bool
	closed    bool
}

// New constructs a Browser over schema, listing records from source.
func New(schema Schema, source Source, opts ...Option) (*Browser, error) {
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	if source == nil {
		return nil, errors.New("source must not be nil")
	}
	b := &Browser{
		schema:   schema,
		source:   source,
		notifier: notify.Discard,
		log:      zerolog.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}
	b.life, b.cancel = context.WithCancel(context.Background())
	b.view = b.defaultView()
	return b, nil
}

// Schema returns the schema the browser was built with.
func (b *Browser) Schema() Schema { return b.schema }

func (b *Browser) defaultView() ViewState {
	v := ViewState{SearchColumn: b.schema.DefaultSearch}
	if v.SearchColumn == "" {
		if cols := b.schema.SearchColumns(); len(cols) > 0 {
			v.SearchColumn = cols[0].Name
		}
	}
	return v
}

// bind ties ctx to the browser lifetime.
func (b *Browser) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(b.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (b *Browser) emit(level notify.Level, msg string) {
	b.notifier.Notify(notify.Notification{Level: level, Message: msg, At: b.now()})
}

// Fetch replaces the collection with a fresh listing. A response with an
// unexpected shape empties the collection; any other failure leaves it
// untouched. Both notify once and return the error. A fetch superseded by a
// newer one or by Close returns ErrStale and changes nothing.
func (b *Browser) Fetch(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.gen++
	gen := b.gen
	src := b.source
	prev := b.fetch
	b.fetch = Loading
	b.mu.Unlock()

	ctx, cancel := b.bind(ctx)
	defer cancel()

	recs, err := src.List(ctx)
	if err == nil {
		recs, err = normalize(recs, b.schema)
	}

	b.mu.Lock()
	if b.closed || gen != b.gen {
		b.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			b.fetch = prev
			b.mu.Unlock()
			return err
		}
		shape := apierr.IsShape(err)
		if shape {
			b.records = nil
			b.view.SelectedID = ""
			b.dropEditLocked()
		}
		b.fetch = Errored
		b.fetchErr = err
		b.mu.Unlock()

		b.log.Warn().Err(err).Str("view", b.schema.Name).Bool("shape", shape).Msg("fetch failed")
		if shape {
			b.emit(notify.Error, fmt.Sprintf("Invalid %s data format", b.schema.Name))
		} else {
			b.emit(notify.Error, fmt.Sprintf("Failed to fetch %s: %s", b.schema.Name, apierr.UserMessage(err, "request failed")))
		}
		return err
	}

	b.records = recs
	b.fetch = Loaded
	b.fetchErr = nil
	b.view.SelectedID = ""
	if b.edit != nil && b.indexLocked(b.view.EditID) < 0 {
		b.dropEditLocked()
	}
	b.mu.Unlock()

	b.log.Debug().Str("view", b.schema.Name).Int("records", len(recs)).Msg("fetched")
	return nil
}

// normalize checks identifiers and drops duplicates, keeping the first.
func normalize(recs []Record, schema Schema) ([]Record, error) {
	out := make([]Record, 0, len(recs))
	seen := make(map[string]bool, len(recs))
	for i, rec := range recs {
		if rec == nil {
			return nil, apierr.Shape("list "+schema.Name, fmt.Sprintf("entry %d is not an object", i))
		}
		id := IDOf(rec, schema.IDField)
		if id == "" {
			return nil, apierr.Shape("list "+schema.Name, fmt.Sprintf("entry %d has no %s", i, schema.IDField))
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, rec)
	}
	return out, nil
}

// Rebind switches to a new source, for example after a different parent
// record was chosen, resets the view state and fetches again.
func (b *Browser) Rebind(ctx context.Context, source Source) error {
	if source == nil {
		return errors.New("source must not be nil")
	}
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.source = source
	b.records = nil
	b.fetch = Idle
	b.fetchErr = nil
	b.dropEditLocked()
	b.view = b.defaultView()
	b.mu.Unlock()
	return b.Fetch(ctx)
}

// SetSearchColumn chooses the column the query applies to.
func (b *Browser) SetSearchColumn(name string) error {
	c, ok := b.schema.Column(name)
	if !ok || !c.Searchable || c.Derived() {
		return fmt.Errorf("%w: %q is not searchable", ErrUnknownColumn, name)
	}
	b.mu.Lock()
	b.view.SearchColumn = name
	b.mu.Unlock()
	return nil
}

// SetQuery sets the search query. An empty query shows every record.
func (b *Browser) SetQuery(q string) {
	b.mu.Lock()
	b.view.Query = q
	b.mu.Unlock()
}

// ToggleSort sorts by name. Choosing the active key flips the direction; a
// new key starts ascending.
func (b *Browser) ToggleSort(name string) error {
	c, ok := b.schema.Column(name)
	if !ok || c.Derived() {
		return fmt.Errorf("%w: %q is not sortable", ErrUnknownColumn, name)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.view.SortKey == name {
		b.view.SortDir = b.view.SortDir.Toggle()
		return nil
	}
	b.view.SortKey = name
	b.view.SortDir = Ascending
	return nil
}

// SetSort sets the sort key and direction directly. An empty name removes
// sorting.
func (b *Browser) SetSort(name string, dir Direction) error {
	if name != "" {
		c, ok := b.schema.Column(name)
		if !ok || c.Derived() {
			return fmt.Errorf("%w: %q is not sortable", ErrUnknownColumn, name)
		}
	}
	b.mu.Lock()
	b.view.SortKey = name
	b.view.SortDir = dir
	b.mu.Unlock()
	return nil
}

// Reset restores the default view state and discards any open edit.
func (b *Browser) Reset() {
	b.mu.Lock()
	b.view = b.defaultView()
	b.dropEditLocked()
	b.mu.Unlock()
}

// View returns a snapshot of the filtered and sorted rows with the state
// that produced them. Rows are copies.
func (b *Browser) View() View {
	b.mu.Lock()
	records := b.records
	v := View{
		State: b.view,
		Fetch: b.fetch,
		Err:   b.fetchErr,
		Total: len(b.records),
		Busy:  b.busy,
	}
	b.mu.Unlock()

	rows := Filter(records, v.State.SearchColumn, v.State.Query)
	if v.State.SortKey != "" {
		c, _ := b.schema.Column(v.State.SortKey)
		rows = Sort(rows, c, v.State.SortDir)
	}
	for i, r := range rows {
		rows[i] = r.Clone()
	}
	v.Rows = rows
	return v
}

// Records returns a copy of the unfiltered collection in server order.
func (b *Browser) Records() []Record {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Record, len(b.records))
	for i, r := range b.records {
		out[i] = r.Clone()
	}
	return out
}

// Cell returns the value rendered for col, computing derived columns
// against the browser clock.
func (b *Browser) Cell(rec Record, col Column) any {
	if col.Derived() {
		return col.Derive(rec, b.now())
	}
	return rec[col.Name]
}

func (b *Browser) indexLocked(id string) int {
	if id == "" {
		return -1
	}
	for i, r := range b.records {
		if IDOf(r, b.schema.IDField) == id {
			return i
		}
	}
	return -1
}

// Select marks the record with id as selected, replacing any prior
// selection.
func (b *Browser) Select(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.indexLocked(id) < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	b.view.SelectedID = id
	return nil
}

// ClearSelection removes the selection.
func (b *Browser) ClearSelection() {
	b.mu.Lock()
	b.view.SelectedID = ""
	b.mu.Unlock()
}

// Selected returns a copy of the selected record.
func (b *Browser) Selected() (Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(b.view.SelectedID)
	if i < 0 {
		return nil, false
	}
	return b.records[i].Clone(), true
}

// CanUpdate reports whether the view accepts edits.
func (b *Browser) CanUpdate() bool { return b.updater != nil }

// CanDelete reports whether the view accepts deletes.
func (b *Browser) CanDelete() bool { return b.deleter != nil }

// ActionsEnabled reports whether row actions may run: a record is
// selected, no edit is open and no mutation is in flight.
func (b *Browser) ActionsEnabled() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return !b.closed && !b.busy && b.edit == nil && b.indexLocked(b.view.SelectedID) >= 0
}

// BeginEdit opens an edit buffer seeded with a copy of the record with id.
// An edit already open on another record is discarded.
func (b *Browser) BeginEdit(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.closed:
		return ErrClosed
	case b.updater == nil:
		return ErrReadOnly
	case b.busy:
		return apierr.Busy()
	}
	i := b.indexLocked(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	b.edit = b.records[i].Clone()
	b.editBase = nil
	if b.schema.VersionField != "" {
		b.editBase = b.records[i][b.schema.VersionField]
	}
	b.fieldErrs = map[string]string{}
	b.view.EditID = id
	b.view.SelectedID = id
	return nil
}

// SetField updates one field of the edit buffer. The value is coerced to
// the column kind and validated; a failing value is still stored so the
// operator can correct it, and the returned validation error is kept until
// the field is fixed.
func (b *Browser) SetField(name string, value any) error {
	c, ok := b.schema.Column(name)
	if !ok || !c.Editable || c.Derived() || name == b.schema.IDField {
		return fmt.Errorf("%w: %s", ErrNotEditable, name)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.edit == nil:
		return ErrNoEdit
	case b.busy:
		// The buffer in flight is closed when the save lands.
		return apierr.Busy()
	}
	v, msg := Coerce(c, value)
	if msg == "" && c.Validate != nil {
		msg = c.Validate(v, b.now())
	}
	b.edit[name] = v
	if msg != "" {
		b.fieldErrs[name] = msg
		return apierr.Validation(map[string]string{name: msg})
	}
	delete(b.fieldErrs, name)
	return nil
}

// FieldErrors returns the outstanding per-field validation messages.
func (b *Browser) FieldErrors() map[string]string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]string, len(b.fieldErrs))
	for k, v := range b.fieldErrs {
		out[k] = v
	}
	return out
}

// EditBuffer returns a copy of the open edit buffer.
func (b *Browser) EditBuffer() (Record, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.edit == nil {
		return nil, false
	}
	return b.edit.Clone(), true
}

// CancelEdit discards the edit buffer without touching the collection.
func (b *Browser) CancelEdit() {
	b.mu.Lock()
	b.dropEditLocked()
	b.mu.Unlock()
}

func (b *Browser) dropEditLocked() {
	b.edit = nil
	b.editBase = nil
	b.fieldErrs = nil
	b.view.EditID = ""
}

// Save sends the edit buffer to the updater. On success the matching record
// is replaced by the server result, or by the buffer when the server
// returned no usable body, and the buffer is closed. On failure the buffer
// stays open and the collection is untouched. Exactly one notification is
// emitted either way.
func (b *Browser) Save(ctx context.Context) error {
	b.mu.Lock()
	switch {
	case b.closed:
		b.mu.Unlock()
		return ErrClosed
	case b.edit == nil:
		b.mu.Unlock()
		return ErrNoEdit
	case b.busy:
		b.mu.Unlock()
		return apierr.Busy()
	}
	if len(b.fieldErrs) > 0 {
		err := apierr.Validation(b.fieldErrs)
		b.mu.Unlock()
		b.emit(notify.Error, "Please fix the errors before submitting.")
		return err
	}
	id := b.view.EditID
	if b.schema.VersionField != "" {
		i := b.indexLocked(id)
		if i >= 0 && !sameValue(b.records[i][b.schema.VersionField], b.editBase) {
			b.mu.Unlock()
			err := apierr.Conflict(id)
			b.emit(notify.Error, "Update failed: "+apierr.UserMessage(err, "record changed"))
			return err
		}
	}
	buf := b.edit.Clone()
	b.busy = true
	b.mu.Unlock()

	res, err := b.updater.Update(ctx, buf.Clone())

	b.mu.Lock()
	b.busy = false
	if err != nil {
		b.mu.Unlock()
		b.log.Warn().Err(err).Str("view", b.schema.Name).Str("id", id).Msg("update failed")
		b.emit(notify.Error, apierr.UserMessage(err, "Update failed"))
		return err
	}

	saved := buf
	if len(res.Record) > 0 {
		saved = res.Record.Clone()
		if IDOf(saved, b.schema.IDField) == "" {
			saved[b.schema.IDField] = buf[b.schema.IDField]
		}
	}
	if i := b.indexLocked(id); i >= 0 {
		next := make([]Record, len(b.records))
		copy(next, b.records)
		next[i] = saved
		b.records = next
	}
	if b.view.EditID == id {
		b.dropEditLocked()
	}
	b.mu.Unlock()

	msg := res.Message
	if msg == "" {
		msg = capitalize(b.schema.Noun) + " updated"
	}
	b.log.Debug().Str("view", b.schema.Name).Str("id", id).Msg("updated")
	b.emit(notify.Success, msg)
	return nil
}

// Delete removes the selected record after confirm approves it. Without
// approval nothing is sent and ErrNotConfirmed is returned. On success the
// record leaves the collection and the selection clears; on failure both
// stay as they were. Exactly one notification is emitted once a request has
// been sent.
func (b *Browser) Delete(ctx context.Context, confirm ConfirmFunc) error {
	rec, err := b.deletable()
	if err != nil {
		return err
	}
	if confirm == nil || !confirm(rec.Clone()) {
		return ErrNotConfirmed
	}
	id := IDOf(rec, b.schema.IDField)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.busy {
		b.mu.Unlock()
		return apierr.Busy()
	}
	b.busy = true
	b.mu.Unlock()

	err = b.deleter.Delete(ctx, id)

	b.mu.Lock()
	b.busy = false
	if err != nil {
		b.mu.Unlock()
		b.log.Warn().Err(err).Str("view", b.schema.Name).Str("id", id).Msg("delete failed")
		b.emit(notify.Error, apierr.UserMessage(err, "Delete failed"))
		return err
	}
	if i := b.indexLocked(id); i >= 0 {
		next := make([]Record, 0, len(b.records)-1)
		next = append(next, b.records[:i]...)
		next = append(next, b.records[i+1:]...)
		b.records = next
	}
	if b.view.SelectedID == id {
		b.view.SelectedID = ""
	}
	if b.view.EditID == id {
		b.dropEditLocked()
	}
	b.mu.Unlock()

	b.log.Debug().Str("view", b.schema.Name).Str("id", id).Msg("deleted")
	b.emit(notify.Success, capitalize(b.schema.Noun)+" deleted")
	return nil
}

func (b *Browser) deletable() (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	switch {
	case b.closed:
		return nil, ErrClosed
	case b.deleter == nil:
		return nil, ErrReadOnly
	case b.busy:
		return nil, apierr.Busy()
	case b.edit != nil:
		return nil, ErrEditing
	}
	i := b.indexLocked(b.view.SelectedID)
	if i < 0 {
		return nil, ErrNoSelection
	}
	return b.records[i].Clone(), nil
}

// Close cancels outstanding fetches. Responses that arrive afterwards are
// discarded. Close is idempotent.
func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.gen++
	b.cancel()
}

func sameValue(a, b any) bool {
	as, aok := TextOf(a)
	bs, bok := TextOf(b)
	return aok == bok && as == bs
}

func capitalize(s string) string {
	if s == "" {
		return "Record"
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[n:])
}
