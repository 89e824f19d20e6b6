package dto

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`

	// Owner sign-up fields; presence of a property name marks the request
	// as an owner registration.
	Owner           bool   `json:"owner,omitempty"`
	PlanID          string `json:"plan_id,omitempty"`
	PropertyName    string `json:"property_name,omitempty"`
	PropertyWebsite string `json:"property_website,omitempty"`
}

func (r RegisterRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	} else if len(r.Password) < 8 {
		errors["password"] = "Password must be at least 8 characters"
	}
	if r.Name == "" {
		errors["name"] = "Name is required"
	}
	if r.Owner && r.PropertyName == "" {
		errors["property_name"] = "Property name is required for owner sign-up"
	}

	return errors
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r LoginRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

type AuthResponse struct {
	Token string  `json:"token"`
	User  UserDTO `json:"user"`
}

type UserDTO struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Role          string `json:"role"`
	PlanID        string `json:"plan_id,omitempty"`
	PaymentStatus string `json:"payment_status,omitempty"`
	PropertyName  string `json:"property_name,omitempty"`
}
