package admin

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/imgajeed76/pgaccess/internal/query"
	"github.com/imgajeed76/pgaccess/internal/view"
)

// Screen is one administrable table with its transient dialog, selection,
// alert and toast state. Methods are safe to call from a UI goroutine
// while Refresh or Submit run in the background.
type Screen interface {
	Title() string
	SearchPlaceholder() string
	Grid() view.Grid

	// Stale reports that view state changed in a way that needs a fetch.
	Stale() bool
	Refresh(ctx context.Context) error

	ToggleSort(columnID string)
	Search(text string)
	NextPage()
	PreviousPage()
	GoToPage(i int)

	// Open starts the row action for visible row i.
	Open(i int) error
	// OpenID starts the row action for the entity with id.
	OpenID(ctx context.Context, id string) error
	Dialog() Dialog
	Submit(ctx context.Context, form Form) error
	Cancel()

	Alert() string
	DismissAlert()
	TakeToast() string
}

// DialogKind identifies the open dialog.
type DialogKind int

const (
	DialogNone DialogKind = iota
	DialogDelete
	DialogRename
)

// Dialog is the confirmation or edit form for the selected row.
type Dialog struct {
	Kind    DialogKind
	Title   string
	Message string

	// Rename form values, prefilled from the selected role.
	Name        string
	Description string

	// Err is a local validation message; the dialog stays open.
	Err string
}

func (d Dialog) Open() bool { return d.Kind != DialogNone }

// Form carries dialog input on submit.
type Form struct {
	Name        string
	Description string
}

// FetchError is a failed collection fetch. It replaces the table body.
type FetchError struct {
	Kind string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("Failed to fetch %s: %v", e.Kind, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// session holds what both screens share.
type session struct {
	mu      sync.Mutex
	backend Backend
	queries *query.Client
	log     *zap.SugaredLogger

	stale    bool
	refresh  uint64 // sequence of the latest Refresh
	dialog   Dialog
	selected string
	alert    string
	toast    string
}

func (s *session) init(b Backend, q *query.Client, log *zap.SugaredLogger) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if q == nil {
		q = query.New(log)
	}
	s.backend = b
	s.queries = q
	s.log = log
	s.stale = true
}

func (s *session) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stale
}

// beginRefresh clears the stale flag and returns the sequence number of
// the new refresh.
func (s *session) beginRefresh() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stale = false
	s.refresh++
	return s.refresh
}

// superseded reports whether a newer Refresh started after seq.
func (s *session) superseded(seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh != seq
}

func (s *session) markStale() {
	s.mu.Lock()
	s.stale = true
	s.mu.Unlock()
}

func (s *session) Dialog() Dialog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dialog
}

// Cancel closes the dialog and clears the selection.
func (s *session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dialog = Dialog{}
	s.selected = ""
}

func (s *session) Alert() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.alert
}

func (s *session) DismissAlert() {
	s.mu.Lock()
	s.alert = ""
	s.mu.Unlock()
}

// TakeToast returns the pending toast once.
func (s *session) TakeToast() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.toast
	s.toast = ""
	return t
}

// Selected is the id of the entity the open dialog acts on.
func (s *session) Selected() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *session) open(d Dialog, id string) {
	s.mu.Lock()
	s.dialog = d
	s.selected = id
	s.mu.Unlock()
}

// pending returns the open dialog and selection for a submit.
func (s *session) pending(kind DialogKind) (Dialog, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dialog.Kind != kind || s.selected == "" {
		return Dialog{}, "", ErrNoDialog
	}
	return s.dialog, s.selected, nil
}

func (s *session) invalid(err error) {
	s.mu.Lock()
	s.dialog.Err = err.Error()
	s.mu.Unlock()
}

// failed records a mutation failure: the message goes to the alert, the
// dialog is closed and the selection cleared. Nothing is refetched.
func (s *session) failed(err error, fallback string) {
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	s.mu.Lock()
	s.alert = msg
	s.dialog = Dialog{}
	s.selected = ""
	s.mu.Unlock()
}

// succeeded invalidates kind, closes the dialog, clears the selection and
// the alert and queues the toast. The caller refetches.
func (s *session) succeeded(kind, toast string) {
	s.queries.Invalidate(kind)
	s.mu.Lock()
	s.dialog = Dialog{}
	s.selected = ""
	s.alert = ""
	s.toast = toast
	s.stale = true
	s.mu.Unlock()
}
