package customers

// ===== Requests =====

type CreateCustomerRequest struct {
	FirstName   string  `json:"firstName" binding:"required"`
	LastName    string  `json:"lastName" binding:"required"`
	BirthDate   string  `json:"birthDate" binding:"required"`
	City        string  `json:"city" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	PhoneNumber string  `json:"phoneNumber" binding:"required,phone"`
	Username    string  `json:"username" binding:"required"`
	Password    string  `json:"password" binding:"required"`
	Role        *string `json:"role,omitempty"` // 未指定なら user
}

// 部分更新。存在するフィールドだけ個別に検証して反映する。
type UpdateCustomerRequest struct {
	FirstName   *string `json:"firstName,omitempty"`
	LastName    *string `json:"lastName,omitempty"`
	BirthDate   *string `json:"birthDate,omitempty"`
	City        *string `json:"city,omitempty"`
	Email       *string `json:"email,omitempty" binding:"omitempty,email"`
	PhoneNumber *string `json:"phoneNumber,omitempty" binding:"omitempty,phone"`
	Username    *string `json:"username,omitempty"`
	Password    *string `json:"password,omitempty"`
	Role        *string `json:"role,omitempty"`
}

// ===== Responses =====

type CustomerResponse struct {
	ID          int64  `json:"id"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Age         int    `json:"age"`
	City        string `json:"city"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// 編集フォーム用。birthDate を YYYY-MM-DD で返す。
type CustomerDetailResponse struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	BirthDate   string `json:"birthDate"`
	City        string `json:"city"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}
