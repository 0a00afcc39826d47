package directory

type IdentityResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

func mapToIdentity(e Employee) IdentityResponse {
	return IdentityResponse{
		ID:       e.ID.String(),
		FullName: e.FullName,
		Email:    e.Email,
		Role:     e.Role,
	}
}
