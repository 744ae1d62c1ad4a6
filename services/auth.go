package services

// AuthService runs the login exchange: credentials in, bearer token out.
type AuthService struct {
	credentials *CredentialStore
	tokens      *TokenService
}

func NewAuthService(credentials *CredentialStore, tokens *TokenService) *AuthService {
	return &AuthService{credentials: credentials, tokens: tokens}
}

func (s *AuthService) Login(username, password string) (string, error) {
	if !s.credentials.VerifyCredentials(username, password) {
		return "", ErrInvalidCredentials
	}
	return s.tokens.Issue(username)
}
