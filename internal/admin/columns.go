package admin

import (
	"strings"
	"time"

	"github.com/imgajeed76/pgaccess/internal/view"
)

// Column ids.
const (
	ColUser    = "user"
	ColRole    = "role"
	ColJoined  = "joined"
	ColCreated = "created"
	ColActions = "actions"
)

// DefaultBadge marks the default role in the role cell.
const DefaultBadge = "[Default]"

// AccountColumns is the accounts table: user, role, joined and actions.
func AccountColumns() view.Columns[AccountRow] {
	return view.MustColumns(
		view.NewCompositeColumn(ColUser, "User",
			func(r AccountRow) string { return r.Account.FullName() },
		),
		view.NewTextColumn(ColRole, "Role",
			func(r AccountRow) string { return r.RoleName },
		),
		view.NewDateColumn(ColJoined, "Joined",
			func(r AccountRow) time.Time { return r.Joined },
		),
		view.NewActionColumn[AccountRow](ColActions, "", "delete"),
	)
}

func roleText(r RoleRow) string {
	return strings.TrimSpace(r.Role.Name + " " + r.Role.DescriptionText())
}

func roleCell(r RoleRow) string {
	var sb strings.Builder
	sb.WriteString(r.Role.Name)
	if r.Role.IsDefault {
		sb.WriteString(" " + DefaultBadge)
	}
	if d := r.Role.DescriptionText(); d != "" {
		sb.WriteString(" · " + d)
	}
	return sb.String()
}

// RoleColumns is the roles table. The role column matches on name and
// description but sorts by name only.
func RoleColumns() view.Columns[RoleRow] {
	return view.MustColumns(
		view.NewCompositeColumn(ColRole, "Role", roleText,
			view.WithCompare(func(a, b RoleRow) int { return view.CompareText(a.Role.Name, b.Role.Name) }),
			view.WithRender(roleCell),
		),
		view.NewDateColumn(ColCreated, "Created",
			func(r RoleRow) time.Time { return r.Role.CreatedAt },
		),
		view.NewActionColumn[RoleRow](ColActions, "", "rename"),
	)
}
