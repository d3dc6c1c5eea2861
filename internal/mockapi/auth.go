package mockapi

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenInvalid       = errors.New("token is invalid or expired")
	ErrTokenMalformed     = errors.New("token is malformed")
)

type authService struct {
	store     *store
	jwtSecret []byte
	tokenTTL  time.Duration
	now       func() time.Time
}

func (s *authService) register(username, password, role string) (*user, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}
	return s.store.createUser(username, string(hashed), role)
}

func (s *authService) login(username, password string) (string, *user, error) {
	u, err := s.store.userByName(username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	token, err := s.issue(u)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

func (s *authService) issue(u *user) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub":      strconv.Itoa(u.ID),
		"exp":      now.Add(s.tokenTTL).Unix(),
		"iat":      now.Unix(),
		"role":     u.Role,
		"username": u.Username,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// identity is what the auth middleware extracts from a valid token.
type identity struct {
	UserID   int
	Role     string
	Username string
}

func (s *authService) validate(tokenString string) (*identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	sub, okSub := claims["sub"].(string)
	role, okRole := claims["role"].(string)
	username, okName := claims["username"].(string)
	if !okSub || !okRole || !okName {
		return nil, ErrTokenInvalid
	}
	id, err := strconv.Atoi(sub)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	return &identity{UserID: id, Role: role, Username: username}, nil
}
