package fakeapi

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	tokenIssuer   = "fsad-devapi"
	tokenLifetime = 24 * time.Hour
)

// claims is the token payload: the user id, mobile number and account type.
type claims struct {
	ID           int64  `json:"id"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	AccountType  string `json:"account_type"`
	jwt.RegisteredClaims
}

type tokens struct {
	secret []byte
	now    func() time.Time
}

func (t tokens) issue(u *account) (string, error) {
	now := t.now()
	c := claims{
		ID:           u.ID,
		MobileNumber: u.MobileNumber,
		AccountType:  u.AccountType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(t.secret)
}

func (t tokens) parse(token string) (*claims, error) {
	if token == "" {
		return nil, errors.New("missing token")
	}
	c := &claims{}
	_, err := jwt.ParseWithClaims(token, c, func(*jwt.Token) (any, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(t.now), jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return nil, err
	}
	return c, nil
}
