package domain

// Role is the closed set of application roles.
type Role string

const (
	RoleAdmin              Role = "ADMIN"
	RoleResponsableService Role = "RESPONSABLE_SERVICE"
	RoleIntervenant        Role = "INTERVENANT"
	RoleParticipant        Role = "PARTICIPANT"
)

// Valid reports whether r is one of the four defined roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleResponsableService, RoleIntervenant, RoleParticipant:
		return true
	}
	return false
}

// Viewer is the identity derived from the session token: who is calling,
// with which role, affiliated to which service. It is threaded explicitly
// through services; there is no ambient request state.
type Viewer struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	ServiceID   string `json:"service_id,omitempty"`
	ServiceName string `json:"service_name,omitempty"`
}

// ActivityScope returns the row-level filter this viewer is allowed to
// apply to the activities collection: ADMIN sees everything,
// RESPONSABLE_SERVICE their own service, INTERVENANT the activities they
// are assigned to, PARTICIPANT only ACTIVE activities. A responsable with
// no service affiliation sees nothing, not everything.
func (v Viewer) ActivityScope() ActivityFilter {
	switch v.Role {
	case RoleAdmin:
		return ActivityFilter{}
	case RoleResponsableService:
		if v.ServiceID == "" {
			return ActivityFilter{None: true}
		}
		return ActivityFilter{ServiceID: v.ServiceID}
	case RoleIntervenant:
		return ActivityFilter{IntervenantID: v.ID}
	default:
		return ActivityFilter{Status: ActivityActive}
	}
}

// CanSeeActivity applies the same table as ActivityScope to a single row.
// Callers that get false must answer "not found", never "forbidden", so
// existence is not disclosed across services.
func (v Viewer) CanSeeActivity(a *Activity) bool {
	switch v.Role {
	case RoleAdmin:
		return true
	case RoleResponsableService:
		return v.ServiceID != "" && a.ServiceID == v.ServiceID
	case RoleIntervenant:
		return a.IntervenantID == v.ID
	default:
		return a.Status == ActivityActive
	}
}

// CanManageActivity reports whether the viewer may create, edit, or delete
// an activity belonging to the given service.
func (v Viewer) CanManageActivity(serviceID string) bool {
	switch v.Role {
	case RoleAdmin:
		return true
	case RoleResponsableService:
		return v.ServiceID != "" && serviceID == v.ServiceID
	}
	return false
}

// CanInvite reports whether the viewer may send an invitation for the given
// role and service. ADMIN may invite anyone anywhere; RESPONSABLE_SERVICE
// may only invite intervenants for their own service.
func (v Viewer) CanInvite(role Role, serviceID string) bool {
	switch v.Role {
	case RoleAdmin:
		return true
	case RoleResponsableService:
		if role != RoleIntervenant || v.ServiceID == "" {
			return false
		}
		return serviceID == "" || serviceID == v.ServiceID
	}
	return false
}
