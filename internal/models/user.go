package models

// Role is the closed set of PMInsight user roles.
type Role string

const (
	RoleAdministrador  Role = "Administrador"
	RoleJefeDeProyecto Role = "Jefe de Proyecto"
	RoleColaborador    Role = "Colaborador"
)

// Principal is the authenticated user as returned by POST /login/
// and persisted client-side under the auth_user key.
type Principal struct {
	ID          int    `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"nombre_completo"`
	Role        Role   `json:"rol"`
	Bank        string `json:"banco,omitempty"`
	Account     string `json:"numero_cuenta,omitempty"`
	CCI         string `json:"cci,omitempty"`
}

// PrincipalRef is the short reference embedded in requests
// (requester, destinatario).
type PrincipalRef struct {
	ID          int    `json:"id"`
	DisplayName string `json:"nombre_completo"`
}
