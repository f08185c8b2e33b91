package security

// In-memory staff credential registry (replace with the staff service later).
type Staff struct {
	ID      string
	Secret  string
	Name    string
	Perms   []string // e.g. {"orders.read","orders.write"}
	Enabled bool
}

var StaffAccounts = map[string]Staff{
	"bar-1":    {ID: "bar-1", Secret: "bar-1-secret", Name: "Bar Station 1", Perms: []string{"orders.read", "orders.write"}, Enabled: true},
	"floor-1":  {ID: "floor-1", Secret: "floor-1-secret", Name: "Floor Staff 1", Perms: []string{"orders.read", "orders.write"}, Enabled: true},
	"readonly": {ID: "readonly", Secret: "readonly-secret", Name: "Reporting", Perms: []string{"orders.read"}, Enabled: true},
}
