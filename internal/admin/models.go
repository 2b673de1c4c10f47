// Package admin wires the view engine to the accounts and roles
// collections: row models, column sets, the backend contract and the two
// screens with their delete and rename flows.
package admin

import (
	"errors"
	"strings"
	"time"
)

// Collection kinds, used as the first part of a query identity.
const (
	KindAccounts = "accounts"
	KindRoles    = "roles"
)

// RolePageSize is the number of roles a backend returns per page.
const RolePageSize = 10

var (
	ErrNotFound     = errors.New("not found")
	ErrNameTaken    = errors.New("Name already exists")
	ErrNameRequired = errors.New("name is required")
	ErrNoSelection  = errors.New("no row selected")
	ErrNoDialog     = errors.New("no dialog open")
)

// Account is a user of the administered system.
type Account struct {
	ID        string    `json:"id"`
	First     string    `json:"first"`
	Last      string    `json:"last"`
	Photo     string    `json:"photo"`
	RoleID    string    `json:"roleId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FullName is "First Last", trimmed when either part is empty.
func (a Account) FullName() string {
	return strings.TrimSpace(a.First + " " + a.Last)
}

// Role is a permission role. Description is optional.
type Role struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	IsDefault   bool      `json:"isDefault"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// DescriptionText returns the description or "".
func (r Role) DescriptionText() string {
	if r.Description == nil {
		return ""
	}
	return *r.Description
}

// Paged is one page of a collection plus the total page count.
type Paged[T any] struct {
	Data  []T `json:"data"`
	Pages int `json:"pages"`
}

// RoleQuery selects a page of roles. Page 0 asks for every role in a
// single page.
type RoleQuery struct {
	Page   int
	Search string
}

// RolePatch is a partial role update. A nil field is left unchanged.
type RolePatch struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// NewRenamePatch validates rename input. The name is trimmed and required;
// a blank description is not sent.
func NewRenamePatch(name, description string) (RolePatch, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return RolePatch{}, ErrNameRequired
	}
	p := RolePatch{Name: &name}
	if d := strings.TrimSpace(description); d != "" {
		p.Description = &d
	}
	return p, nil
}

// Apply returns r with the patch applied.
func (p RolePatch) Apply(r Role, now time.Time) Role {
	if p.Name != nil {
		r.Name = *p.Name
	}
	if p.Description != nil {
		d := *p.Description
		r.Description = &d
	}
	r.UpdatedAt = now
	return r
}

// MatchesRoleSearch is the backend search predicate: a case-insensitive
// substring of name or description.
func MatchesRoleSearch(r Role, search string) bool {
	if search == "" {
		return true
	}
	q := strings.ToLower(search)
	return strings.Contains(strings.ToLower(r.Name), q) ||
		strings.Contains(strings.ToLower(r.DescriptionText()), q)
}

// PageCount is the number of pages needed for n items, at least 1.
func PageCount(n, size int) int {
	if size < 1 {
		size = RolePageSize
	}
	return max(1, (n+size-1)/size)
}

// PageOf slices items for a RoleQuery-style page.
func PageOf[T any](items []T, page, size int) Paged[T] {
	if page <= 0 {
		return Paged[T]{Data: items, Pages: 1}
	}
	pages := PageCount(len(items), size)
	start := min((page-1)*size, len(items))
	end := min(start+size, len(items))
	return Paged[T]{Data: items[start:end], Pages: pages}
}
