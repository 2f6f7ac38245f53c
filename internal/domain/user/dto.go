package user

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RegisterDriverRequest struct {
	FullName      string `json:"full_name" binding:"required,max=255"`
	Email         string `json:"email" binding:"required,email,max=255"`
	Password      string `json:"password" binding:"required"`
	Phone         string `json:"phone" binding:"required,max=20"`
	LicenseNumber string `json:"license_number" binding:"required,max=64"`
	LicenseExpiry string `json:"license_expiry" binding:"required"` // YYYY-MM-DD
}

type UpdateDriverRequest struct {
	LicenseNumber *string  `json:"license_number" binding:"omitempty,max=64"`
	LicenseExpiry *string  `json:"license_expiry"`
	SafetyScore   *float64 `json:"safety_score" binding:"omitempty,min=0,max=100"`
	Status        *string  `json:"status" binding:"omitempty,oneof='On Duty' 'On Break' 'Suspended'"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	OTP         string `json:"otp" binding:"required,len=6"`
	NewPassword string `json:"new_password" binding:"required"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  DriverInfo `json:"user"`
}
