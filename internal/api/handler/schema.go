package handler

// messageResponse is the envelope for plain acknowledgements and errors.
type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type registerRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type meResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// --- Customers ---

type customerRequest struct {
	Name    string `json:"name"    validate:"required,notblank"`
	Phone   string `json:"phone"   validate:"required,notblank"`
	Address string `json:"address" validate:"required,notblank"`
}

type customerResponse struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type listCustomersResponse struct {
	Customers []customerResponse `json:"customers"`
	Total     int64              `json:"total"`
	Page      int                `json:"page"`
	LastPage  int                `json:"lastPage"`
}
