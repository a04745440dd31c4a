package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoSession is returned by Load when no token has been stored.
var ErrNoSession = errors.New("not logged in")

// Session is the explicit per-call context handed to every remote operation.
// It is read from the Store once when a screen activates.
type Session struct {
	Token       string
	AccountType string
	FirstName   string
	LastName    string
}

// DisplayName joins first and last name.
func (s Session) DisplayName() string {
	switch {
	case s.FirstName == "":
		return s.LastName
	case s.LastName == "":
		return s.FirstName
	default:
		return s.FirstName + " " + s.LastName
	}
}

// Load reads the session fields from st. It returns ErrNoSession when no
// token is stored.
func Load(st Store) (Session, error) {
	var s Session
	fields := []struct {
		key string
		dst *string
	}{
		{KeyToken, &s.Token},
		{KeyAccountType, &s.AccountType},
		{KeyFirstName, &s.FirstName},
		{KeyLastName, &s.LastName},
	}
	for _, f := range fields {
		v, _, err := st.Get(f.key)
		if err != nil {
			return Session{}, fmt.Errorf("read %s: %w", f.key, err)
		}
		*f.dst = v
	}
	if s.Token == "" {
		return Session{}, ErrNoSession
	}
	return s, nil
}

// Save writes every session field to st.
func Save(st Store, s Session) error {
	pairs := [][2]string{
		{KeyToken, s.Token},
		{KeyAccountType, s.AccountType},
		{KeyFirstName, s.FirstName},
		{KeyLastName, s.LastName},
	}
	for _, p := range pairs {
		if err := st.Set(p[0], p[1]); err != nil {
			return fmt.Errorf("write %s: %w", p[0], err)
		}
	}
	return nil
}

// PutSelected stores v as JSON under key; used to hand a chosen record from
// a selector to a dependent screen.
func PutSelected(st Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return st.Set(key, string(b))
}

// GetSelected decodes the JSON stored under key into v. It reports false
// when nothing is stored.
func GetSelected(st Store, key string, v any) (bool, error) {
	raw, ok, err := st.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// TokenExpiry reads the exp claim of a JWT without verifying its signature.
// The remote API remains the authority on validity; this only lets a client
// warn before sending a request that would be rejected.
func TokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the token carries an exp claim at or before now.
// Tokens without a readable exp are never reported as expired.
func (s Session) Expired(now time.Time) bool {
	exp, ok := TokenExpiry(s.Token)
	return ok && !now.Before(exp)
}
