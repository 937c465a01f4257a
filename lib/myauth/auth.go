package myauth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/floresvictoria/shopbackend/lib/mycontext"
	"github.com/floresvictoria/shopbackend/lib/myerrors"
	"github.com/floresvictoria/shopbackend/lib/myhttp"
	"github.com/floresvictoria/shopbackend/lib/mylog"
)

// Claims that may carry the user id, in order of preference.
var userIDClaims = []string{"userId", "id", "sub"}

type Verifier struct {
	secret []byte
	logger mylog.Logger
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{
		secret: []byte(secret),
		logger: mylog.New("auth"),
	}
}

// Verify checks signature and expiry of an HS256 token and returns the user id it carries.
func (v *Verifier) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", myerrors.NewAuthenticationError(err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", myerrors.NewAuthenticationError(fmt.Errorf("invalid token claims"))
	}

	for _, name := range userIDClaims {
		uid, ok := claims[name].(string)
		if ok && uid != "" {
			return uid, nil
		}
	}

	return "", myerrors.NewAuthenticationError(fmt.Errorf("token carries no user id"))
}

// Middleware rejects requests without a valid bearer token before they reach a handler.
func (v *Verifier) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(v.logger)

		tokenString, found := bearerToken(r)
		if !found {
			errorWriter.WriteError(c, w, 1, myerrors.NewAuthenticationError(fmt.Errorf("missing bearer token")))
			return
		}

		uid, err := v.Verify(tokenString)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(mycontext.WithUserID(r.Context(), uid)))
	})
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
