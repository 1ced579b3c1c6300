package client

// Account is the outward view of a registered account.
type Account struct {
	ID       string
	UserName string
	Role     string
}

// Project is a project as listed by the server. CreatedAt is RFC 3339.
type Project struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string
	CreatedAt   string
}
