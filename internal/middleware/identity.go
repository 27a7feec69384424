package middleware

import (
	"context"
	"net/http"

	"jobboard/internal/whop"
)

// UserTokenHeader carries the platform-signed user token on embedded requests.
const UserTokenHeader = "X-Whop-User-Token"

// AppConfigCookie carries the platform's app-config token; its payload holds
// the deployment (tenant) id.
const AppConfigCookie = "whop.app-config"

type callerKey struct{}
type tenantKey struct{}

// UserVerifier validates a platform user token.
type UserVerifier interface {
	VerifyUserToken(token string) (*whop.Caller, error)
}

// Tenant resolves the deployment id from the app-config cookie and stores it
// in the request context. Requests without a resolvable tenant are rejected;
// there is no environment fallback.
func Tenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(AppConfigCookie)
		if err != nil {
			http.Error(w, "missing deployment context", http.StatusUnauthorized)
			return
		}
		tenantID, err := whop.DeploymentID(cookie.Value)
		if err != nil {
			http.Error(w, "missing deployment context", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), tenantKey{}, tenantID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Identity verifies the caller's user token and stores the caller in the
// request context.
func Identity(verifier UserVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := verifier.VerifyUserToken(r.Header.Get(UserTokenHeader))
			if err != nil {
				http.Error(w, "not authenticated", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), callerKey{}, *caller)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CallerFromContext returns the verified caller stored by Identity.
func CallerFromContext(ctx context.Context) (whop.Caller, bool) {
	caller, ok := ctx.Value(callerKey{}).(whop.Caller)
	return caller, ok
}

// TenantFromContext returns the tenant id stored by Tenant.
func TenantFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(tenantKey{}).(string); ok {
		return v
	}
	return ""
}

// ContextWithCaller and ContextWithTenant exist for handler tests.
func ContextWithCaller(ctx context.Context, caller whop.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, caller)
}

func ContextWithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey{}, tenantID)
}
