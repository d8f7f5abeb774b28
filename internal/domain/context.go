package domain

// TenantContext identifica la empresa y el usuario que ejecuta cada operación.
// Se pasa explícito a todos los casos de uso del núcleo; nunca se lee de estado global.
type TenantContext struct {
	BusinessID   string
	ActingUserID string
}

// Valid verifica que el contexto traiga empresa y usuario.
func (tc TenantContext) Valid() bool {
	return tc.BusinessID != "" && tc.ActingUserID != ""
}
