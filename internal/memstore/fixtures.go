package memstore

import (
	"time"

	"github.com/imgajeed76/pgaccess/internal/admin"
	"github.com/imgajeed76/pgaccess/internal/util"
)

// Fixture is a seed data set. Every backend seeds from the same one.
type Fixture struct {
	Roles    []admin.Role
	Accounts []admin.Account
}

var fixtureEpoch = time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

type fixtureRole struct {
	name, desc string
	isDefault  bool
}

var seedRoles = []fixtureRole{
	{"Administrator", "Full access to every screen", false},
	{"Member", "Standard access", true},
	{"Editor", "Can edit content", false},
	{"Viewer", "Read only access", false},
	{"Billing", "Manages invoices and plans", false},
	{"Support", "Answers customer tickets", false},
	{"Auditor", "Reviews activity logs", false},
	{"Developer", "", false},
	{"Moderator", "Removes abusive content", false},
	{"Analyst", "Builds reports", false},
	{"Guest", "Temporary access", false},
	{"Owner", "Account owner", false},
}

var seedNames = [][2]string{
	{"Alice", "Anderson"}, {"Bob", "Baker"}, {"Carol", "Chen"}, {"Dave", "Dubois"},
	{"Erin", "Evans"}, {"Frank", "Fischer"}, {"Grace", "Garcia"}, {"Heidi", "Hansen"},
	{"Ivan", "Ivanov"}, {"Judy", "Jones"}, {"Karl", "Keller"}, {"Laura", "López"},
	{"Mallory", "Meyer"}, {"Niaj", "Nakamura"}, {"Olivia", "Olsen"}, {"Peggy", "Park"},
	{"Quentin", "Quinn"}, {"Rupert", "Rossi"}, {"Sybil", "Schmidt"}, {"Trent", "Tanaka"},
	{"Uma", "Usman"}, {"Victor", "Vogel"}, {"Walter", "Weber"}, {"Xena", "Xu"},
	{"Zoë", "Zimmermann"},
}

// Fixtures builds the seed data: twelve roles (two server pages) and
// twenty five accounts (three client pages). The last account points at a
// role that does not exist.
func Fixtures() Fixture {
	var f Fixture
	for i, r := range seedRoles {
		created := fixtureEpoch.Add(time.Duration(i) * time.Hour)
		role := admin.Role{
			ID:        util.NewULIDWithTime(created),
			Name:      r.name,
			IsDefault: r.isDefault,
			CreatedAt: created,
			UpdatedAt: created,
		}
		if r.desc != "" {
			d := r.desc
			role.Description = &d
		}
		f.Roles = append(f.Roles, role)
	}

	for i, n := range seedNames {
		created := fixtureEpoch.AddDate(0, 0, i*3)
		roleID := f.Roles[i%4].ID
		if i == len(seedNames)-1 {
			roleID = util.NewULIDWithTime(fixtureEpoch)
		}
		f.Accounts = append(f.Accounts, admin.Account{
			ID:        util.NewULIDWithTime(created),
			First:     n[0],
			Last:      n[1],
			RoleID:    roleID,
			CreatedAt: created,
			UpdatedAt: created,
		})
	}
	return f
}
