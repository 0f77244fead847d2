package auth

import (
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"

	"github.com/trezcool/vidyalaya/core"
)

const tokenType = "bearer"

var (
	// ErrInvalidToken covers malformed, expired and badly signed tokens alike.
	ErrInvalidToken = errors.New("could not validate credentials")

	errUnsupportedAlgorithm = errors.New("unsupported JWT signing algorithm")
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Role        Role   `json:"role"`
	Username    string `json:"username,omitempty"`
	StudentCode string `json:"student_code,omitempty"`
}

// Principal decodes the caller carried by the claims.
func (c Claims) Principal() (Principal, error) {
	id, err := strconv.Atoi(c.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}
	switch c.Role {
	case RoleAdmin:
		return AdminPrincipal{ID: id, Username: c.Username}, nil
	case RoleStudent:
		return StudentPrincipal{ID: id, StudentCode: c.StudentCode}, nil
	default:
		return nil, ErrInvalidToken
	}
}

// TokenService signs and verifies HMAC JWTs.
type TokenService struct {
	key     []byte
	method  jwt.SigningMethod
	ttl     time.Duration
	issuer  string
	nowFunc func() time.Time // mockable
}

func NewTokenService(conf *core.Config) (*TokenService, error) {
	method, ok := jwt.GetSigningMethod(conf.Server.JWTAlgorithm).(*jwt.SigningMethodHMAC)
	if !ok {
		return nil, errors.Wrap(errUnsupportedAlgorithm, conf.Server.JWTAlgorithm)
	}
	return &TokenService{
		key:     []byte(conf.SecretKey),
		method:  method,
		ttl:     conf.Server.JWTExpirationDelta,
		issuer:  conf.AppName,
		nowFunc: time.Now,
	}, nil
}

func (ts *TokenService) claims(p Principal) *Claims {
	now := ts.nowFunc()
	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    ts.issuer,
			Subject:   p.Subject(),
			ExpiresAt: now.Add(ts.ttl).Unix(),
			IssuedAt:  now.Unix(),
		},
		Role: p.Role(),
	}
	switch p := p.(type) {
	case AdminPrincipal:
		claims.Username = p.Username
	case StudentPrincipal:
		claims.StudentCode = p.StudentCode
	}
	return claims
}

// Issue generates a signed token for p.
func (ts *TokenService) Issue(p Principal) (Token, error) {
	token := jwt.NewWithClaims(ts.method, ts.claims(p))
	ss, err := token.SignedString(ts.key)
	if err != nil {
		return Token{}, errors.Wrap(err, "signing token")
	}
	return Token{AccessToken: ss, TokenType: tokenType, Role: p.Role()}, nil
}

// Verify checks the signature and expiry of raw and returns the caller it was issued to.
func (ts *TokenService) Verify(raw string) (Principal, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != ts.method.Alg() {
			return nil, ErrInvalidToken
		}
		return ts.key, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	// Valid() lets tokens without exp through
	if !claims.VerifyExpiresAt(ts.nowFunc().Unix(), true) {
		return nil, ErrInvalidToken
	}
	return claims.Principal()
}
