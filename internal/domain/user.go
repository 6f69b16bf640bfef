package domain

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Slug         string `json:"slug"`
	PasswordHash string `json:"-"`
	Image        string `json:"image,omitempty"`
	Roles        []Role `json:"roles,omitempty"`
}

// Role es de solo lectura para este servicio; la gestion de roles vive fuera.
type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// RoleNames aplana los roles para usarlos como claims del token.
func (u User) RoleNames() []string {
	if len(u.Roles) == 0 {
		return nil
	}
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
