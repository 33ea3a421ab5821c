package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	jwtvalidator "github.com/auth0/go-jwt-middleware/v2/validator"

	"github.com/auth0/go-jwt-middleware/v2/jwks"
	"github.com/golang-jwt/jwt/v5"
)

// Identity is the stable external identity a verified bearer token maps to.
type Identity struct {
	UID         string
	Email       string
	DisplayName string
}

// Resolver verifies a bearer credential and yields the external identity.
// The application never issues tokens itself; verification is delegated to
// whichever resolver is wired in at process start.
type Resolver interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

var ErrInvalidToken = errors.New("invalid token")

// CustomClaims carries the profile claims the identity provider adds on
// top of the registered ones.
type CustomClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func (c *CustomClaims) Validate(ctx context.Context) error {
	return nil
}

// Auth0Resolver verifies RS256 tokens against the tenant's JWKS endpoint.
type Auth0Resolver struct {
	validator *jwtvalidator.Validator
}

func NewAuth0Resolver(domain, audience string) (*Auth0Resolver, error) {
	issuerURL, err := url.Parse("https://" + domain + "/")
	if err != nil {
		return nil, fmt.Errorf("failed to parse issuer url: %w", err)
	}

	provider := jwks.NewCachingProvider(issuerURL, 5*time.Minute)

	v, err := jwtvalidator.New(
		provider.KeyFunc,
		jwtvalidator.RS256,
		issuerURL.String(),
		[]string{audience},
		jwtvalidator.WithCustomClaims(func() jwtvalidator.CustomClaims {
			return &CustomClaims{}
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up token validator: %w", err)
	}

	return &Auth0Resolver{validator: v}, nil
}

func (a *Auth0Resolver) Verify(ctx context.Context, token string) (*Identity, error) {
	raw, err := a.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := raw.(*jwtvalidator.ValidatedClaims)
	if !ok || claims.RegisteredClaims.Subject == "" {
		return nil, ErrInvalidToken
	}

	identity := &Identity{UID: claims.RegisteredClaims.Subject}
	if custom, ok := claims.CustomClaims.(*CustomClaims); ok && custom != nil {
		identity.Email = custom.Email
		identity.DisplayName = custom.Name
	}

	return identity, nil
}

// LocalResolver verifies HS256 tokens signed with a shared secret. Used in
// development and in the test suite, where no identity provider is around.
type LocalResolver struct {
	secret []byte
}

func NewLocalResolver(secret []byte) *LocalResolver {
	return &LocalResolver{secret: secret}
}

// CreateToken mints a token the resolver itself will accept.
func (l *LocalResolver) CreateToken(identity Identity) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256,
		jwt.MapClaims{
			"sub":   identity.UID,
			"email": identity.Email,
			"name":  identity.DisplayName,
			"exp":   time.Now().Add(time.Hour * 24).Unix(),
		})

	return token.SignedString(l.secret)
}

func (l *LocalResolver) Verify(ctx context.Context, tokenString string) (*Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return l.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)

	return &Identity{UID: sub, Email: email, DisplayName: name}, nil
}
