// Package flash carries one-shot messages across a redirect in a short-lived
// cookie. Messages are stored as translation ids, never as free text.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
)

const cookieName = "flash"

const (
	KindSuccess = "success"
	KindError   = "error"
	KindInfo    = "info"
)

type Message struct {
	Kind string `json:"k"`
	ID   string `json:"m"`
}

// Set queues a message for the next page rendered for this client.
func Set(w http.ResponseWriter, kind, messageID string) {
	raw, err := json.Marshal(Message{Kind: kind, ID: messageID})
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func Success(w http.ResponseWriter, messageID string) { Set(w, KindSuccess, messageID) }
func Error(w http.ResponseWriter, messageID string)   { Set(w, KindError, messageID) }
func Info(w http.ResponseWriter, messageID string)    { Set(w, KindInfo, messageID) }

// Pop returns the pending message, if any, and clears the cookie.
func Pop(w http.ResponseWriter, r *http.Request) *Message {
	c, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil || m.ID == "" {
		return nil
	}
	switch m.Kind {
	case KindSuccess, KindError, KindInfo:
	default:
		m.Kind = KindInfo
	}
	return &m
}
