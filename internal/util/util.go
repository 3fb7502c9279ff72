// Package util provides content hashing and one-shot alert cookies.
package util

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"

	"github.com/anndream/diucse-alumni-admin/internal/config"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// SetAlert queues msg to be shown once on the next rendered page.
func SetAlert(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     config.CookieAlert,
		Value:    url.QueryEscape(msg),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopAlert returns the queued alert, if any, and clears it.
func PopAlert(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(config.CookieAlert)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{
		Name:   config.CookieAlert,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})
	msg, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return msg
}
