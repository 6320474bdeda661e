// Package auth verifies the bearer tokens that gate the API. Tokens are
// issued elsewhere; this package only needs the shared HS256 secret.
package auth

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

// Perm names one thing a user may do.
type Perm string

const (
	ViewCustomer    Perm = "view_customer"
	ChangeCustomer  Perm = "change_customer"
	DeleteCustomer  Perm = "delete_customer"
	ChangeInsurance Perm = "change_insurance"
	ChangeWarranty  Perm = "change_warranty"
	ChangeDefect    Perm = "change_defect"
	ManageFiles     Perm = "manage_files"
)

// ManageRenewals is the authority over renewal notices.
const ManageRenewals = ChangeInsurance

// All lists every permission.
var All = []Perm{ViewCustomer, ChangeCustomer, DeleteCustomer, ChangeInsurance, ChangeWarranty, ChangeDefect, ManageFiles}

var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Perms []Perm `json:"perms"`
	jwt.StandardClaims
}

// Has reports whether the claims grant p.
func (c *Claims) Has(p Perm) bool {
	return c != nil && slices.Contains(c.Perms, p)
}

// Sign issues a token for subject. The API never calls it; it serves the
// seed command and tests.
func Sign(secret, subject string, perms []Perm, ttl time.Duration, now time.Time) (string, error) {
	claims := Claims{
		Perms: perms,
		StandardClaims: jwt.StandardClaims{
			Subject:   subject,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// Parse verifies signature, algorithm and expiry. A "Bearer " prefix is
// accepted.
func Parse(secret, token string) (*Claims, error) {
	token = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(token), "Bearer "))
	if token == "" {
		return nil, ErrInvalidToken
	}
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
