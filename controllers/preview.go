package controllers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/yeremiapane/qr-menu-builder/theme"
	"github.com/yeremiapane/qr-menu-builder/utils"
)

const (
	previewSessionName = "menu_preview"
	previewBusinessKey = "business_id"
	previewStyleKey    = "style"
)

// PreviewStore keeps unsaved style overrides in a signed cookie so the owner
// can open /menu/{id}?preview=true before saving. Nothing is written to the
// database.
type PreviewStore struct {
	store sessions.Store
}

func NewPreviewStore(store sessions.Store) *PreviewStore {
	return &PreviewStore{store: store}
}

func NewPreviewCookieStore(key []byte, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

func (p *PreviewStore) Save(w http.ResponseWriter, r *http.Request, businessID string, attrs theme.Attributes) error {
	session, _ := p.store.Get(r, previewSessionName)
	raw, err := json.Marshal(attrs)
	if err != nil {
		return err
	}
	session.Values[previewBusinessKey] = businessID
	session.Values[previewStyleKey] = string(raw)
	return session.Save(r, w)
}

// Load returns the overrides saved for businessID, or nil. A preview saved
// for another business is ignored.
func (p *PreviewStore) Load(r *http.Request, businessID string) *theme.Attributes {
	session, err := p.store.Get(r, previewSessionName)
	if err != nil {
		return nil
	}
	owner, _ := session.Values[previewBusinessKey].(string)
	raw, _ := session.Values[previewStyleKey].(string)
	if owner != businessID || raw == "" {
		return nil
	}
	var attrs theme.Attributes
	if err := json.Unmarshal([]byte(raw), &attrs); err != nil {
		utils.ErrorLogger.WithFields(utils.TenantFields(businessID)).Warnf("unreadable preview session: %v", err)
		return nil
	}
	return &attrs
}

func (p *PreviewStore) Clear(w http.ResponseWriter, r *http.Request) error {
	session, _ := p.store.Get(r, previewSessionName)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}
