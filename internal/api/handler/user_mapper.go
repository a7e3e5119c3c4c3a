package handler

import "github.com/croco-platform/user-service/internal/core/domain"

// Transport-layer mapping, kept separate so the JSON contract is not
// coupled to internal domain changes.

func toUserResponse(d *domain.UserDetails) userResponse {
	roles := make([]string, len(d.Roles))
	for i, r := range d.Roles {
		roles[i] = string(r)
	}
	return userResponse{
		ID:       d.ID,
		Username: d.Username,
		Email:    d.Email,
		Roles:    roles,
	}
}

func toUserResponses(details []domain.UserDetails) []userResponse {
	out := make([]userResponse, len(details))
	for i := range details {
		out[i] = toUserResponse(&details[i])
	}
	return out
}

func toRoles(roles []string) []domain.Role {
	out := make([]domain.Role, len(roles))
	for i, r := range roles {
		out[i] = domain.Role(r)
	}
	return out
}
