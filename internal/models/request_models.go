package models

// SubmitQuoteRequest is the public quote form payload.
type SubmitQuoteRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
	Service string `json:"service"`
	Message string `json:"message"`
}

// UpdateQuoteRequest is an admin edit of a quote request.
// Pointers distinguish fields not provided from fields cleared.
type UpdateQuoteRequest struct {
	Name    *string      `json:"name,omitempty"`
	Email   *string      `json:"email,omitempty"`
	Phone   *string      `json:"phone,omitempty"`
	Company *string      `json:"company,omitempty"`
	Status  *QuoteStatus `json:"status,omitempty"`
}

// IsEmpty reports whether no field was provided.
func (r UpdateQuoteRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil && r.Company == nil && r.Status == nil
}

// WriteContentRequest is an admin save of the homepage content. Absent fields are left as stored;
// Services, when present, replaces the stored list.
type WriteContentRequest struct {
	LogoURL       *string        `json:"logoUrl,omitempty"`
	HeroTitle     *string        `json:"heroTitle,omitempty"`
	HeroSubtitle  *string        `json:"heroSubtitle,omitempty"`
	HeroImageURL  *string        `json:"heroImageUrl,omitempty"`
	AboutTitle    *string        `json:"aboutTitle,omitempty"`
	AboutText     *string        `json:"aboutText,omitempty"`
	AboutImageURL *string        `json:"aboutImageUrl,omitempty"`
	Services      *[]ServiceItem `json:"services,omitempty"`
}

// SignUpRequest is the customer registration payload.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignInRequest is the e-mail/password login payload.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Session is the result of a successful password sign-in.
type Session struct {
	IDToken      string    `json:"idToken"`
	RefreshToken string    `json:"refreshToken"`
	ExpiresIn    string    `json:"expiresIn"`
	Principal    Principal `json:"principal"`
	Role         Role      `json:"role,omitempty"`
}
