package admin

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/imgajeed76/pgaccess/internal/query"
	"github.com/imgajeed76/pgaccess/internal/view"
)

// RolesScreen lists roles one backend page at a time. Page changes and
// search text are forwarded to the backend; sorting stays local to the
// loaded page.
type RolesScreen struct {
	session
	store *view.Store[RoleRow]

	// guarded by session.mu
	page   int
	search string
}

var _ Screen = (*RolesScreen)(nil)

// NewRolesScreen builds the screen. q and log may be nil.
func NewRolesScreen(b Backend, q *query.Client, log *zap.SugaredLogger) *RolesScreen {
	s := &RolesScreen{page: 1}
	s.init(b, q, log)
	s.store = view.NewStore(RoleColumns(), view.GlobalText(),
		view.NewServerPagination(RolePageSize, s.onPageChange, s.onSearchChange))
	return s
}

func (s *RolesScreen) Title() string             { return "Roles" }
func (s *RolesScreen) SearchPlaceholder() string { return "Search roles..." }

// Store exposes the view store, for subscribers.
func (s *RolesScreen) Store() *view.Store[RoleRow] { return s.store }

func (s *RolesScreen) Grid() view.Grid {
	snap := s.store.View()
	g := snap.Grid()
	g.Keys = view.Build(snap.Rows, func(r RoleRow) string { return r.Role.ID })
	return g
}

// Query is the backend query the next Refresh issues.
func (s *RolesScreen) Query() RoleQuery {
	s.mu.Lock()
	defer s.mu.Unlock()
	return RoleQuery{Page: s.page, Search: s.search}
}

func (s *RolesScreen) onPageChange(page int) {
	s.mu.Lock()
	s.page = page
	s.stale = true
	s.mu.Unlock()
	s.log.Debugw("roles page requested", "page", page)
}

func (s *RolesScreen) onSearchChange(text string) {
	s.mu.Lock()
	s.search = text
	s.page = 1
	s.stale = true
	s.mu.Unlock()
	s.log.Debugw("roles search requested", "search", text)
}

// Refresh fetches the current page. A result that arrives after the page
// or search moved on, or after a newer Refresh started, is dropped.
func (s *RolesScreen) Refresh(ctx context.Context) error {
	seq := s.beginRefresh()
	rq := s.Query()
	s.store.Mutate(view.BeginLoading[RoleRow]())

	key := query.Key{Kind: KindRoles, Page: rq.Page, Search: rq.Search}
	res, err := query.Fetch(ctx, s.queries, key, func(ctx context.Context) (Paged[Role], error) {
		return s.backend.FetchRoles(ctx, rq)
	})

	if s.Query() != rq || s.superseded(seq) {
		s.log.Debugw("roles result dropped", "key", key.String())
		return nil
	}
	if err != nil {
		err = &FetchError{Kind: "roles", Err: err}
		s.log.Warnw("roles fetch failed", "error", err)
		s.store.Mutate(view.FailLoading[RoleRow](err))
		return err
	}
	s.store.Mutate(view.LoadPage(BuildRoleRows(res.Data), rq.Page, res.Pages))
	s.log.Debugw("roles loaded", "page", rq.Page, "pages", res.Pages, "rows", len(res.Data))
	return nil
}

func (s *RolesScreen) ToggleSort(columnID string) {
	s.store.Mutate(view.ToggleSort[RoleRow](columnID))
}

func (s *RolesScreen) Search(text string) {
	s.store.Mutate(view.SetFilterText[RoleRow](text))
}

func (s *RolesScreen) NextPage()      { s.store.Mutate(view.NextPage[RoleRow]()) }
func (s *RolesScreen) PreviousPage()  { s.store.Mutate(view.PreviousPage[RoleRow]()) }
func (s *RolesScreen) GoToPage(i int) { s.store.Mutate(view.GoToPage[RoleRow](i)) }

// Open starts renaming visible row i.
func (s *RolesScreen) Open(i int) error {
	rows := s.store.View().Rows
	if i < 0 || i >= len(rows) {
		return ErrNoSelection
	}
	s.openRename(rows[i].Role)
	return nil
}

// OpenID starts renaming the role with id. Roles off the current page are
// looked up in the full role list.
func (s *RolesScreen) OpenID(ctx context.Context, id string) error {
	for _, r := range s.store.View().Rows {
		if r.Role.ID == id {
			s.openRename(r.Role)
			return nil
		}
	}
	all, err := query.Fetch(ctx, s.queries, query.Key{Kind: KindRoles}, func(ctx context.Context) (Paged[Role], error) {
		return s.backend.FetchRoles(ctx, RoleQuery{})
	})
	if err != nil {
		return &FetchError{Kind: "roles", Err: err}
	}
	for _, r := range all.Data {
		if r.ID == id {
			s.openRename(r)
			return nil
		}
	}
	return fmt.Errorf("role %s: %w", id, ErrNotFound)
}

func (s *RolesScreen) openRename(r Role) {
	s.open(Dialog{
		Kind:        DialogRename,
		Title:       "Rename role",
		Message:     fmt.Sprintf("Rename %s.", r.Name),
		Name:        r.Name,
		Description: r.DescriptionText(),
	}, r.ID)
}

// Submit validates the form and renames the selected role. A validation
// failure keeps the dialog open with a message and sends nothing.
func (s *RolesScreen) Submit(ctx context.Context, form Form) error {
	_, id, err := s.pending(DialogRename)
	if err != nil {
		return err
	}
	patch, err := NewRenamePatch(form.Name, form.Description)
	if err != nil {
		s.invalid(err)
		return err
	}

	role, err := s.backend.UpdateRole(ctx, id, patch)
	if err != nil {
		s.log.Warnw("rename role failed", "id", id, "error", err)
		s.failed(err, "Failed to rename role")
		return err
	}
	s.log.Infow("role renamed", "id", role.ID, "name", role.Name)
	s.succeeded(KindRoles, "Role renamed successfully")
	if err := s.Refresh(ctx); err != nil {
		s.log.Debugw("refetch after rename failed", "error", err)
	}
	return nil
}

// RequestRename opens the rename dialog for the role with id.
func (s *RolesScreen) RequestRename(ctx context.Context, id string) error {
	return s.OpenID(ctx, id)
}

// SubmitRename submits the open rename dialog with new values.
func (s *RolesScreen) SubmitRename(ctx context.Context, name, description string) error {
	return s.Submit(ctx, Form{Name: name, Description: description})
}

// CancelDialog closes the dialog without renaming.
func (s *RolesScreen) CancelDialog() { s.Cancel() }
