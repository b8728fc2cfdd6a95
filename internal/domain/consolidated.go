package domain

import (
	"encoding/base64"
	"fmt"
	"strings"
	"time"
)

// ConsolidatedScam is a read-only projection grouping every report that
// shares a normalized identifier. It is recomputed from the scam_reports
// table on each read and never persisted.
type ConsolidatedScam struct {
	ID              string       `json:"id"`
	ScamType        string       `json:"scamType"`
	Identifier      string       `json:"identifier"`
	ReportCount     int          `json:"reportCount"`
	FirstReportedAt time.Time    `json:"firstReportedAt"`
	LastReportedAt  time.Time    `json:"lastReportedAt"`
	IsVerified      bool         `json:"isVerified"`
	Reports         []ScamReport `json:"reports,omitempty"`
}

// ConsolidatedID derives the projection's stable identifier from its group
// key. Base64url keeps business names (spaces, punctuation) safe in URL
// path segments.
func ConsolidatedID(scamType, identifier string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(scamType + ":" + identifier))
}

// ParseConsolidatedID is the inverse of ConsolidatedID.
func ParseConsolidatedID(id string) (scamType, identifier string, err error) {
	b, err := base64.RawURLEncoding.DecodeString(id)
	if err != nil {
		return "", "", fmt.Errorf("invalid consolidated scam id: %w", ErrBadRequest)
	}
	scamType, identifier, ok := strings.Cut(string(b), ":")
	if !ok || identifier == "" {
		return "", "", fmt.Errorf("invalid consolidated scam id: %w", ErrBadRequest)
	}
	switch scamType {
	case ScamTypePhone, ScamTypeEmail, ScamTypeBusiness:
		return scamType, identifier, nil
	}
	return "", "", fmt.Errorf("invalid consolidated scam id: %w", ErrBadRequest)
}
