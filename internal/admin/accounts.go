package admin

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/imgajeed76/pgaccess/internal/query"
	"github.com/imgajeed76/pgaccess/internal/view"
)

// AccountsScreen lists every account with its role name. Paging, sorting
// and filtering all happen locally; the filter text applies to the user
// column only.
type AccountsScreen struct {
	session
	store *view.Store[AccountRow]

	byID map[string]Account
}

var _ Screen = (*AccountsScreen)(nil)

// NewAccountsScreen builds the screen. q and log may be nil.
func NewAccountsScreen(b Backend, q *query.Client, log *zap.SugaredLogger, pageSize int) *AccountsScreen {
	s := &AccountsScreen{}
	s.init(b, q, log)
	s.store = view.NewStore(AccountColumns(), view.PerColumn(ColUser), view.NewClientPagination(pageSize))
	return s
}

func (s *AccountsScreen) Title() string             { return "Accounts" }
func (s *AccountsScreen) SearchPlaceholder() string { return "Search by name..." }

// Store exposes the view store, for subscribers.
func (s *AccountsScreen) Store() *view.Store[AccountRow] { return s.store }

// Grid renders the visible page, keyed by account id.
func (s *AccountsScreen) Grid() view.Grid {
	snap := s.store.View()
	g := snap.Grid()
	g.Keys = view.Build(snap.Rows, func(r AccountRow) string { return r.Account.ID })
	return g
}

// Refresh fetches accounts and the role lookup together. The screen is
// loading until both resolve; the first failure wins. A result that
// arrives after a newer Refresh started is dropped.
func (s *AccountsScreen) Refresh(ctx context.Context) error {
	seq := s.beginRefresh()
	s.store.Mutate(view.BeginLoading[AccountRow]())

	var (
		accounts Paged[Account]
		roles    Paged[Role]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := query.Fetch(gctx, s.queries, query.Key{Kind: KindAccounts}, s.backend.FetchAccounts)
		if err != nil {
			return &FetchError{Kind: "users", Err: err}
		}
		accounts = res
		return nil
	})
	g.Go(func() error {
		res, err := query.Fetch(gctx, s.queries, query.Key{Kind: KindRoles}, func(ctx context.Context) (Paged[Role], error) {
			return s.backend.FetchRoles(ctx, RoleQuery{})
		})
		if err != nil {
			return &FetchError{Kind: "roles", Err: err}
		}
		roles = res
		return nil
	})
	err := g.Wait()
	if s.superseded(seq) {
		s.log.Debugw("accounts result dropped")
		return nil
	}
	if err != nil {
		s.log.Warnw("accounts fetch failed", "error", err)
		s.store.Mutate(view.FailLoading[AccountRow](err))
		return err
	}

	byID := make(map[string]Account, len(accounts.Data))
	for _, a := range accounts.Data {
		byID[a.ID] = a
	}
	s.mu.Lock()
	s.byID = byID
	s.mu.Unlock()

	s.store.Mutate(view.Load(BuildAccountRows(accounts.Data, roles.Data)))
	s.log.Debugw("accounts loaded", "accounts", len(accounts.Data), "roles", len(roles.Data))
	return nil
}

func (s *AccountsScreen) ToggleSort(columnID string) {
	s.store.Mutate(view.ToggleSort[AccountRow](columnID))
}

func (s *AccountsScreen) Search(text string) {
	s.store.Mutate(view.SetFilterText[AccountRow](text))
}

func (s *AccountsScreen) NextPage()     { s.store.Mutate(view.NextPage[AccountRow]()) }
func (s *AccountsScreen) PreviousPage() { s.store.Mutate(view.PreviousPage[AccountRow]()) }

// GoToPage jumps to a page, clamped to the valid range.
func (s *AccountsScreen) GoToPage(i int) { s.store.Mutate(view.GoToPage[AccountRow](i)) }

// Open asks to confirm deletion of visible row i.
func (s *AccountsScreen) Open(i int) error {
	rows := s.store.View().Rows
	if i < 0 || i >= len(rows) {
		return ErrNoSelection
	}
	s.openDelete(rows[i].Account)
	return nil
}

// OpenID asks to confirm deletion of the account with id.
func (s *AccountsScreen) OpenID(ctx context.Context, id string) error {
	s.mu.Lock()
	a, ok := s.byID[id]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("account %s: %w", id, ErrNotFound)
	}
	s.openDelete(a)
	return nil
}

func (s *AccountsScreen) openDelete(a Account) {
	s.open(Dialog{
		Kind:    DialogDelete,
		Title:   "Are you sure?",
		Message: fmt.Sprintf("The user %s will be permanently deleted.", a.FullName()),
	}, a.ID)
}

// Submit deletes the selected account. On success the accounts are
// refetched; on failure the backend message becomes the alert.
func (s *AccountsScreen) Submit(ctx context.Context, _ Form) error {
	_, id, err := s.pending(DialogDelete)
	if err != nil {
		return err
	}

	deleted, err := s.backend.DeleteAccount(ctx, id)
	if err != nil {
		s.log.Warnw("delete account failed", "id", id, "error", err)
		s.failed(err, "Failed to delete user")
		return err
	}
	s.log.Infow("account deleted", "id", deleted.ID)
	s.succeeded(KindAccounts, "User deleted successfully")
	if err := s.Refresh(ctx); err != nil {
		s.log.Debugw("refetch after delete failed", "error", err)
	}
	return nil
}

// RequestDelete opens the delete dialog for the account with id.
func (s *AccountsScreen) RequestDelete(ctx context.Context, id string) error {
	return s.OpenID(ctx, id)
}

// ConfirmDelete submits the open delete dialog.
func (s *AccountsScreen) ConfirmDelete(ctx context.Context) error {
	return s.Submit(ctx, Form{})
}

// CancelDialog closes the dialog without deleting.
func (s *AccountsScreen) CancelDialog() { s.Cancel() }
