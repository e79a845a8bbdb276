// Package session provides the client identity that namespaces data on
// the equipment service. The identifier is generated once, stored in the
// preferences file and never rotated. It is not a credential.
package session

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/five82/equip/internal/prefs"
)

// HeaderName is the header that carries the session identifier.
const HeaderName = "X-Session-ID"

// Ensure returns the stored session identifier for prefsPath, generating
// and persisting a new one when none is stored or the stored value is not
// a UUID. Repeated calls return the same value.
func Ensure(prefsPath string) (string, error) {
	p, err := prefs.Load(prefsPath)
	if err != nil {
		return "", fmt.Errorf("load prefs: %w", err)
	}
	if Valid(p.SessionID) {
		return p.SessionID, nil
	}

	id := uuid.NewString()
	if _, err := prefs.Update(prefsPath, func(p *prefs.Prefs) { p.SessionID = id }); err != nil {
		return "", fmt.Errorf("save session id: %w", err)
	}
	return id, nil
}

// Valid reports whether id is a well-formed UUID.
func Valid(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}

// Headers composes the header set sent with every call.
func Headers(id string) http.Header {
	h := make(http.Header, 2)
	h.Set(HeaderName, id)
	h.Set("Content-Type", "application/json")
	return h
}
