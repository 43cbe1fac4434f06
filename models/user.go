package models

const (
	RoleAdmin     = "admin"
	RoleEditor    = "editor"
	RoleMarketing = "marketing"
)

// AnonymousName is shown for accounts that never set a display name.
const AnonymousName = "Anónimo"

type User struct {
	Base
	Name          string         `gorm:"not null;default:''" json:"name"`
	Email         string         `gorm:"unique;not null" json:"email"`
	Password      *string        `json:"-"` // nil for Google accounts
	PhotoURL      string         `json:"photoURL"`
	GoogleID      *string        `gorm:"unique" json:"-"`
	Provider      string         `gorm:"not null;default:'email'" json:"provider"`
	Admin         bool           `gorm:"not null;default:false" json:"admin"`
	Editor        bool           `gorm:"not null;default:false" json:"editor"`
	Marketing     bool           `gorm:"not null;default:false" json:"marketing"`
	RefreshTokens []RefreshToken `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// Roles lists the role flags that are switched on.
func (u *User) Roles() []string {
	roles := []string{}
	if u.Admin {
		roles = append(roles, RoleAdmin)
	}
	if u.Editor {
		roles = append(roles, RoleEditor)
	}
	if u.Marketing {
		roles = append(roles, RoleMarketing)
	}
	return roles
}

func (u *User) DisplayName() string {
	if u.Name == "" {
		return AnonymousName
	}
	return u.Name
}
