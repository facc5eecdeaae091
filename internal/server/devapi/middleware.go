package devapi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/taskflow/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

type ctxKey string

const userIDKey ctxKey = "userID"

func userID(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

// statusRecorder keeps the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.URL.Path
		if cur := mux.CurrentRoute(r); cur != nil {
			if tmpl, err := cur.GetPathTemplate(); err == nil {
				route = plainTemplate(strings.TrimPrefix(tmpl, BasePath))
			}
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:    r.Method,
			Route:     route,
			Token:     bearer(r),
			RequestID: r.Header.Get(common.RequestIDHeaderName),
			Status:    rec.status,
		})
		s.mu.Unlock()

		s.log.Debug(r.Context(), "request", "method", r.Method, "route", route, "status", rec.status)
	})
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearer(r)
		if token == "" {
			writeDetail(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		claims, err := parseToken(token, s.secret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				writeDetail(w, http.StatusUnauthorized, "Token expired")
				return
			}
			writeDetail(w, http.StatusUnauthorized, "Could not validate credentials")
			return
		}

		s.mu.Lock()
		stale := claims.Generation < s.generation
		_, known := s.accounts[claims.UserID]
		s.mu.Unlock()

		if stale {
			writeDetail(w, http.StatusUnauthorized, "Token expired")
			return
		}
		if !known {
			writeDetail(w, http.StatusUnauthorized, "User not found")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, claims.UserID)))
	})
}

func bearer(r *http.Request) string {
	h := r.Header.Get(common.AuthorizationHeaderName)
	if !strings.HasPrefix(h, common.BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(h, common.BearerPrefix)
}

// plainTemplate drops the regexp part of mux path variables:
// "/tasks/{id:[0-9]+}" becomes "/tasks/{id}".
func plainTemplate(tmpl string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(tmpl, '{')
		if open < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end := strings.IndexByte(tmpl[open:], '}')
		if end < 0 {
			b.WriteString(tmpl)
			return b.String()
		}
		end += open
		name, _, _ := strings.Cut(tmpl[open+1:end], ":")
		b.WriteString(tmpl[:open])
		b.WriteString("{" + name + "}")
		tmpl = tmpl[end+1:]
	}
}
