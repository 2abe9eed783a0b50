package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"
)

// Known beacon event types.
const (
	EventTypePageview   = "pageview"
	EventTypeHashChange = "hashchange"
)

// Event is the collector wire envelope sent by the beacon:
// {u: page URL, id: tracking id, e: {t: event type, p: payload}}.
// The payload shape depends on the event type, so it stays raw until Visit
// decodes it against the declared type.
type Event struct {
	U  string    `json:"u"`
	ID string    `json:"id"`
	E  EventBody `json:"e"`
}

// EventBody carries the event type discriminator and the undecoded payload.
type EventBody struct {
	T string          `json:"t"`
	P json.RawMessage `json:"p"`
}

// PageviewPayload is the payload of the initial pageview event.
type PageviewPayload struct {
	URL       string  `json:"url"`
	Referrer  string  `json:"referrer"`
	UserAgent string  `json:"userAgent"`
	Timestamp int64   `json:"timestamp"`
	Data      JSONMap `json:"data"`
}

// HashChangePayload is the payload of in-page hash navigation events.
type HashChangePayload struct {
	U string `json:"u"`
	R string `json:"r"`
}

// Visit is the normalized per-event data the collector persists, independent of
// which payload variant it was decoded from.
type Visit struct {
	Route     string
	Referrer  string
	UserAgent string
	Timestamp time.Time
	Data      JSONMap
}

// Visit decodes the payload according to the event type and validates the
// fields that variant requires.
func (e Event) Visit() (Visit, error) {
	switch e.E.T {
	case EventTypePageview:
		var p PageviewPayload
		if err := json.Unmarshal(e.E.P, &p); err != nil {
			return Visit{}, fmt.Errorf("malformed pageview payload: %w", err)
		}
		if p.URL == "" {
			return Visit{}, fmt.Errorf("pageview payload requires url")
		}
		v := Visit{
			Route:     p.URL,
			Referrer:  p.Referrer,
			UserAgent: p.UserAgent,
			Data:      p.Data,
		}
		if p.Timestamp > 0 {
			v.Timestamp = time.UnixMilli(p.Timestamp)
		}
		return v, nil
	case EventTypeHashChange:
		var p HashChangePayload
		if err := json.Unmarshal(e.E.P, &p); err != nil {
			return Visit{}, fmt.Errorf("malformed hashchange payload: %w", err)
		}
		if p.U == "" {
			return Visit{}, fmt.Errorf("hashchange payload requires u")
		}
		return Visit{Route: routeOf(p.U), Referrer: p.R}, nil
	default:
		return Visit{}, fmt.Errorf("unknown event type %q", e.E.T)
	}
}

// Domain returns the hostname of the reported page URL.
func (e Event) Domain() (string, error) {
	u, err := url.Parse(e.U)
	if err != nil {
		return "", fmt.Errorf("invalid page url: %w", err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("page url has no hostname")
	}
	return u.Hostname(), nil
}

// routeOf reduces a full page URL to its path plus fragment so hash navigation
// within the same page aggregates under distinct routes.
func routeOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	route := u.Path
	if route == "" {
		route = "/"
	}
	if u.Fragment != "" {
		route += "#" + u.Fragment
	}
	return route
}
