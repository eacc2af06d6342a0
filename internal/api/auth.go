package api

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"

	"condoqueixas/internal/bootstrap/logging"
	"condoqueixas/internal/domain/complaint"
	"condoqueixas/internal/ports"
)

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type requesterKey struct{}

type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}

// IssueToken signs an HS256 token for userID acting as role.
func IssueToken(secret string, userID string, role complaint.Role, ttl time.Duration, now time.Time) (string, error) {
	if strings.TrimSpace(secret) == "" {
		return "", errors.New("jwt secret not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("user id is required")
	}
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  userID,
			Issuer:   "condoqueixas",
			IssuedAt: jwt.NewNumericDate(now),
		},
		Role: string(role),
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func authenticate(token string, secret string) (complaint.Requester, error) {
	if strings.TrimSpace(secret) == "" {
		return complaint.Requester{}, errors.New("jwt secret not configured")
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	if err != nil {
		return complaint.Requester{}, err
	}
	if !parsed.Valid {
		return complaint.Requester{}, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return complaint.Requester{}, errors.New("subject claim required")
	}
	role, err := complaint.ParseRole(claims.Role)
	if err != nil {
		return complaint.Requester{}, err
	}
	return complaint.Requester{ID: claims.Subject, Role: role}, nil
}

func withRequester(ctx context.Context, requester complaint.Requester) context.Context {
	return context.WithValue(ctx, requesterKey{}, requester)
}

func requesterFromContext(ctx context.Context) (complaint.Requester, huma.StatusError) {
	if requester, ok := ctx.Value(requesterKey{}).(complaint.Requester); ok && requester.ID != "" {
		return requester, nil
	}
	return complaint.Requester{}, newAPIError(http.StatusUnauthorized, "unauthorized", "authentication required")
}

func bearerToken(authz string) (string, bool) {
	parts := strings.Fields(authz)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", false
	}
	return parts[1], true
}

// newAuthMiddleware resolves the bearer token into a requester. Websocket
// clients cannot set headers, so the events route also accepts access_token.
func newAuthMiddleware(basePath string, cfg AuthConfig) func(http.Handler) http.Handler {
	healthPath := path.Join(basePath, "health")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !strings.HasPrefix(req.URL.Path, basePath) {
				next.ServeHTTP(w, req)
				return
			}
			if req.URL.Path == healthPath {
				next.ServeHTTP(w, req)
				return
			}

			token := ""
			if authz := strings.TrimSpace(req.Header.Get("Authorization")); authz != "" {
				parsed, ok := bearerToken(authz)
				if !ok {
					respondStatusError(w, newAPIError(http.StatusUnauthorized, "invalid_credentials", "invalid credentials"))
					return
				}
				token = parsed
			} else if strings.HasSuffix(req.URL.Path, "/events") {
				token = strings.TrimSpace(req.URL.Query().Get("access_token"))
			}
			if token == "" {
				respondStatusError(w, newAPIError(http.StatusUnauthorized, "unauthorized", "authentication required"))
				return
			}

			requester, err := authenticate(token, cfg.JWTSecret)
			if err != nil {
				respondStatusError(w, newAPIError(http.StatusUnauthorized, "invalid_credentials", "invalid credentials"))
				return
			}

			ctx := withRequester(req.Context(), requester)
			ctx = logging.WithRequest(ctx, middleware.GetReqID(ctx), requester.ID)
			ctx = ports.WithClientInfo(ctx, ports.ClientInfo{
				IPAddress: clientIP(req),
				UserAgent: req.UserAgent(),
			})
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	}
}

func clientIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}
	return host
}

func respondStatusError(w http.ResponseWriter, err huma.StatusError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.GetStatus())
	_ = json.NewEncoder(w).Encode(err)
}
