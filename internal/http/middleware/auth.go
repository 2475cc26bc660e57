package middleware

import (
	"net/http"
	"strings"

	"github.com/tuanvumaihuynh/product-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/product-catalog/internal/auth"
)

type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

type ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)

// Authenticate rejects requests without a valid bearer token. The verified
// identity is stored in the request context.
func Authenticate(verifier TokenVerifier, onError ErrorHandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				onError(w, r, apperr.UnauthorizedErr)
				return
			}

			identity, err := verifier.Verify(token)
			if err != nil {
				onError(w, r, apperr.InvalidTokenErr.WrapParent(err))
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.NewContext(r.Context(), identity)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	token = strings.TrimSpace(token)
	return token, token != ""
}
