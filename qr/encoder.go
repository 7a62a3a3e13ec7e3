// Package qr derives the customer-facing menu URLs printed into QR codes and
// renders them as images.
package qr

import (
	"errors"
	"net/url"
	"strings"
)

var (
	ErrNotMenuURL    = errors.New("qr: not a menu url")
	ErrForeignOrigin = errors.New("qr: url belongs to another origin")
)

// Encoder builds menu URLs under a public origin such as
// https://menu.example.com. It does no I/O.
//
// The table id is only a query parameter. It attributes scans and labels the
// menu; it grants nothing.
type Encoder struct {
	Origin string
}

func NewEncoder(origin string) Encoder {
	return Encoder{Origin: strings.TrimRight(origin, "/")}
}

// MenuURL returns {origin}/menu/{businessID}.
func (e Encoder) MenuURL(businessID string) string {
	return strings.TrimRight(e.Origin, "/") + "/menu/" + url.PathEscape(businessID)
}

// TableURL returns {origin}/menu/{businessID}?table={tableID}.
func (e Encoder) TableURL(businessID, tableID string) string {
	return e.MenuURL(businessID) + "?table=" + url.QueryEscape(tableID)
}

// Parse reverses MenuURL and TableURL. tableID is empty for a business-level
// URL.
func (e Encoder) Parse(raw string) (businessID, tableID string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", ErrNotMenuURL
	}
	origin, err := url.Parse(strings.TrimRight(e.Origin, "/"))
	if err != nil {
		return "", "", err
	}
	if !strings.EqualFold(u.Scheme, origin.Scheme) || !strings.EqualFold(u.Host, origin.Host) {
		return "", "", ErrForeignOrigin
	}

	prefix := strings.TrimRight(origin.Path, "/") + "/menu/"
	if !strings.HasPrefix(u.Path, prefix) {
		return "", "", ErrNotMenuURL
	}
	businessID = strings.TrimPrefix(u.Path, prefix)
	if businessID == "" || strings.Contains(businessID, "/") {
		return "", "", ErrNotMenuURL
	}
	return businessID, u.Query().Get("table"), nil
}
