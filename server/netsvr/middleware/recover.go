package middleware

import (
	"net/http"

	chimid "github.com/go-chi/chi/v5/middleware"
)

// Recover 接住 handler panic 並回 500。
// dist/sampler 層對程式員錯誤會 panic（合約），這裡是服務的最後防線。
func Recover(next http.Handler) http.Handler {
	return chimid.Recoverer(next)
}
