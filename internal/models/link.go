// Package models contains domain models and entities.
package models

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// IndexLength is the fixed length of a link identifier.
const IndexLength = 5

// DefaultTTL is how long a link record stays readable after creation
// (183 days, enforced by the store backend).
const DefaultTTL = 183 * 24 * time.Hour

// Link represents a shortened link entity. The index is the store key;
// only the remaining fields are persisted as the value.
type Link struct {
	Index     string `json:"index"`
	URL       string `json:"url"`
	Prefix    string `json:"prefix,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// LinkRecord is the persisted value shape, JSON-serialized under the index key.
type LinkRecord struct {
	URL       string `json:"url"`
	Prefix    string `json:"prefix,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Validation and lookup errors
var (
	ErrEmptyURL     = errors.New("url cannot be empty")
	ErrInvalidURL   = errors.New("invalid url format")
	ErrLinkNotFound = errors.New("link not found")
)

// NewLink builds a Link for the given destination with the creation time
// recorded as milliseconds since epoch.
func NewLink(index, destination, prefix string) *Link {
	return &Link{
		Index:     index,
		URL:       destination,
		Prefix:    prefix,
		Timestamp: time.Now().UnixMilli(),
	}
}

// Record returns the persisted value portion of the link.
func (l *Link) Record() LinkRecord {
	return LinkRecord{
		URL:       l.URL,
		Prefix:    l.Prefix,
		Timestamp: l.Timestamp,
	}
}

// FromRecord reconstructs a Link from a stored record and its key.
func FromRecord(index string, rec LinkRecord) *Link {
	return &Link{
		Index:     index,
		URL:       rec.URL,
		Prefix:    rec.Prefix,
		Timestamp: rec.Timestamp,
	}
}

// ValidateURL checks that s parses as an absolute URL with a host.
// Runs once, at creation time; redirects trust the stored value.
func ValidateURL(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return ErrEmptyURL
	}

	u, err := url.Parse(s)
	if err != nil {
		return ErrInvalidURL
	}

	// Must be absolute: scheme plus host
	if u.Scheme == "" || u.Host == "" {
		return ErrInvalidURL
	}

	return nil
}
