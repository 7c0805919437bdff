package middleware

import (
	"net/http"
	"strings"

	"github.com/differentroads/dr-checkout/internal/pkg/jwt"
	"github.com/differentroads/dr-checkout/internal/pkg/session"
	"github.com/differentroads/dr-checkout/pkg/errors"
	"github.com/differentroads/dr-checkout/pkg/response"
	"github.com/differentroads/dr-checkout/pkg/status"
)

// CustomerSession verifies the bearer token and resolves the account in the
// session store before letting the request through.
type CustomerSession struct {
	jsonWebToken *jwt.JSONWebToken
	store        session.Store
}

func NewCustomerSessionMiddleware(jsonWebToken *jwt.JSONWebToken, store session.Store) *CustomerSession {
	return &CustomerSession{
		jsonWebToken: jsonWebToken,
		store:        store,
	}
}

func (m *CustomerSession) Verify(next http.HandlerFunc) http.HandlerFunc {
	return m.verifyRole("", next)
}

// VerifyAdmin additionally requires the admin role on the session account.
func (m *CustomerSession) VerifyAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.verifyRole("admin", next)
}

func (m *CustomerSession) verifyRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if token == "" {
			response.JSON(w, http.StatusUnauthorized, response.RESTEnvelope{
				Status:  status.UNAUTHORIZED,
				Message: "missing bearer token",
			})

			return
		}

		claims, err := m.jsonWebToken.Parse(token)
		if err != nil {
			ae := errors.Destruct(err)
			response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
				Status:  ae.Status,
				Message: ae.Message,
			})

			return
		}

		account, err := m.store.Get(ctx, claims.Subject)
		if err != nil {
			ae := errors.Destruct(err)
			response.JSON(w, ae.HTTPStatusCode, response.RESTEnvelope{
				Status:  ae.Status,
				Message: ae.Message,
			})

			return
		}

		if role != "" && account.Role != role {
			response.JSON(w, http.StatusForbidden, response.RESTEnvelope{
				Status:  status.FORBIDDEN,
				Message: "account's role is not allowed to access this resource",
			})

			return
		}

		next(w, r.WithContext(session.SetAccountToCtx(ctx, account)))
	}
}
