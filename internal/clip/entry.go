// Package clip defines the core record model for captured clipboard items.
package clip

import (
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// ContentType is the closed set of primary types a captured item can carry.
type ContentType string

const (
	TypeText         ContentType = "text"
	TypeEmail        ContentType = "email"
	TypePhoneNumber  ContentType = "phoneNumber"
	TypeIPAddress    ContentType = "ipAddress"
	TypeUUID         ContentType = "uuid"
	TypeHash         ContentType = "hash"
	TypeJWT          ContentType = "jwt"
	TypeAPIKey       ContentType = "apiKey"
	TypeEnvVar       ContentType = "envVar"
	TypeEnvVarBlock  ContentType = "envVarBlock"
	TypeProse        ContentType = "prose"
	TypeImage        ContentType = "image"
	TypeScreenshot   ContentType = "screenshot"
	TypeFilePath     ContentType = "filePath"
	TypeURL          ContentType = "url"
	TypeCode         ContentType = "code"
	TypeShellCommand ContentType = "shellCommand"
	TypeUnknown      ContentType = "unknown"
)

// AllContentTypes lists every valid ContentType variant.
var AllContentTypes = []ContentType{
	TypeText, TypeEmail, TypePhoneNumber, TypeIPAddress, TypeUUID,
	TypeHash, TypeJWT, TypeAPIKey, TypeEnvVar, TypeEnvVarBlock,
	TypeProse, TypeImage, TypeScreenshot, TypeFilePath, TypeURL,
	TypeCode, TypeShellCommand, TypeUnknown,
}

// Valid reports whether t is one of the known ContentType variants.
func (t ContentType) Valid() bool {
	for _, known := range AllContentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsBinary reports whether t bypasses text classification entirely.
func (t ContentType) IsBinary() bool {
	return t == TypeImage || t == TypeScreenshot
}

// Entry represents a single captured clipboard record.
type Entry struct {
	// ID is a ULID that uniquely identifies this entry
	ID string `json:"id"`

	// Content is the captured text exactly as it was on the pasteboard
	Content string `json:"content"`

	// Type is the primary content type assigned by classification
	Type ContentType `json:"type"`

	// Confidence is the classifier's confidence in Type, in [0,1]
	Confidence float64 `json:"confidence"`

	// SourceApp identifies the application the content was copied from (optional)
	SourceApp string `json:"source_app,omitempty"`

	// ParentEntryID links an extracted child entry back to its origin (nullable)
	ParentEntryID *string `json:"parent_entry_id,omitempty"`

	// Metadata is the serialized extraction document (may be empty)
	Metadata string `json:"metadata,omitempty"`

	// CreatedAt is the Unix timestamp of the capture
	CreatedAt int64 `json:"created_at"`
}

// NewID generates a new ULID for an entry.
func NewID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
