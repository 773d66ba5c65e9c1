package api

// RegisterRequest представляет запрос на регистрацию нового оператора
type RegisterRequest struct {
	Username string `json:"username"` // username пользователя
	Password string `json:"password"` // пароль в открытом виде (только по TLS)
	Role     string `json:"role,omitempty"`
}

// RegisterResponse представляет ответ на успешную регистрацию
type RegisterResponse struct {
	UserID  string `json:"user_id"` // UUID пользователя
	Message string `json:"message"` // сообщение об успешной регистрации
}

// LoginRequest представляет запрос на аутентификацию
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse представляет ответ с токеном доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // JWT access token
	UserID      string `json:"user_id"`
	ExpiresIn   int64  `json:"expires_in"` // время жизни access token в секундах
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error          string `json:"error"`             // описание ошибки
	Message        string `json:"message,omitempty"` // дополнительное сообщение
	Code           string `json:"code,omitempty"`    // код ошибки (VALIDATION_ERROR, CONFLICT, ...)
	CurrentVersion int64  `json:"current_version,omitempty"`
}
