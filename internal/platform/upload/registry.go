// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package upload

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Size units.
const (
	KiB int64 = 1 << 10
	MiB int64 = 1 << 20
)

// Hard ceilings. Configured values above these are clamped.
const (
	AudioCeilingBytes    = 50 * MiB
	ImageMaxBytes        = 20 * MiB
	LyricsCeilingBytes   = 5 * MiB
	DocumentMaxBytes     = 100 * MiB
	MaxFieldNameBytes    = 100
	MaxFieldValueBytes   = 1 * MiB
	MaxFormFields        = 50
	MaxFormFieldBytes    = 2 * MiB
	defaultMaxFileBytes  = 50 * MiB
	defaultMaxFiles      = 5
	defaultAudioBytes    = 25 * MiB
	defaultLyricsBytes   = 1 * MiB
	minBinarySizeBytes   = 1 * KiB
	minLyricsSizeBytes   = 10
	generalErrorMessage  = "File upload error"
	generalCountTemplate = "Too many files. Maximum is %d files per request"
	generalSizeTemplate  = "File is too large. Maximum size is %s"
)

// # Policies

// Messages are the client-facing texts for one category.
type Messages struct {
	WrongType string
	WrongSize string
}

// Policy is the size and content-type rule set of one [Category].
type Policy struct {
	Category     Category
	MinSizeBytes int64
	MaxSizeBytes int64
	Messages     Messages
	contentTypes map[string]struct{}
}

// Allows reports whether the normalized contentType is accepted.
func (p Policy) Allows(contentType string) bool {
	_, ok := p.contentTypes[contentType]
	return ok
}

// ContentTypes returns the accepted content types, sorted.
func (p Policy) ContentTypes() []string {
	types := make([]string, 0, len(p.contentTypes))
	for contentType := range p.contentTypes {
		types = append(types, contentType)
	}
	slices.Sort(types)
	return types
}

// Limits are the cross-category limits of one upload request.
type Limits struct {
	MaxFiles           int
	MaxFieldNameBytes  int
	MaxFieldValueBytes int64
	// MaxFormFields and MaxFormFieldBytes bound all plain fields together.
	MaxFormFields     int
	MaxFormFieldBytes int64
	// MaxFileBytes caps files that could not be classified.
	MaxFileBytes int64
}

// Config carries the environment-derived inputs of the registry.
type Config struct {
	MaxFileBytes   int64
	MaxFiles       int
	AudioMaxBytes  int64
	LyricsMaxBytes int64
}

// DefaultConfig returns the values used when no environment override exists.
func DefaultConfig() Config {
	return Config{
		MaxFileBytes:   defaultMaxFileBytes,
		MaxFiles:       defaultMaxFiles,
		AudioMaxBytes:  defaultAudioBytes,
		LyricsMaxBytes: defaultLyricsBytes,
	}
}

// # Registry

// Registry is the read-only policy table. It is built once at startup and
// shared by every request without locking.
type Registry struct {
	policies map[Category]Policy
	limits   Limits
	messages generalMessages
}

type generalMessages struct {
	size  string
	count string
}

// NewRegistry builds and checks every policy. An error here means the
// process must not start.
func NewRegistry(config Config) (*Registry, error) {
	if config.MaxFiles <= 0 {
		return nil, errors.New("upload: max files must be positive")
	}
	if config.MaxFileBytes <= 0 {
		return nil, errors.New("upload: max file size must be positive")
	}

	audioMax := min(config.AudioMaxBytes, AudioCeilingBytes)
	lyricsMax := min(config.LyricsMaxBytes, LyricsCeilingBytes)

	policies := []Policy{
		newPolicy(CategoryAudio, minBinarySizeBytes, audioMax,
			"Invalid audio format. Only MP3, WAV, OGG and AAC files are allowed",
			"Audio file",
			"audio/mpeg", "audio/mp3", "audio/wav", "audio/x-wav", "audio/wave", "audio/ogg", "audio/aac", "audio/x-aac",
		),
		newPolicy(CategoryImage, minBinarySizeBytes, ImageMaxBytes,
			"Invalid image format. Only JPEG, PNG, GIF and WebP images are allowed",
			"Image",
			"image/jpeg", "image/png", "image/gif", "image/webp",
		),
		newPolicy(CategoryLyrics, minLyricsSizeBytes, lyricsMax,
			"Invalid lyrics format. Only plain text and LRC files are allowed",
			"Lyrics file",
			"text/plain", "application/octet-stream", "text/x-lrc",
		),
		newPolicy(CategoryDocument, minBinarySizeBytes, DocumentMaxBytes,
			"Invalid document format. Only PDF, Word, Excel and plain text files are allowed",
			"Document",
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
			"application/vnd.ms-excel",
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			"text/plain",
		),
	}

	registry := &Registry{
		policies: make(map[Category]Policy, len(policies)),
		limits: Limits{
			MaxFiles:           config.MaxFiles,
			MaxFieldNameBytes:  MaxFieldNameBytes,
			MaxFieldValueBytes: MaxFieldValueBytes,
			MaxFormFields:      MaxFormFields,
			MaxFormFieldBytes:  MaxFormFieldBytes,
			MaxFileBytes:       config.MaxFileBytes,
		},
		messages: generalMessages{
			size:  fmt.Sprintf(generalSizeTemplate, FormatBytes(config.MaxFileBytes)),
			count: fmt.Sprintf(generalCountTemplate, config.MaxFiles),
		},
	}

	for _, policy := range policies {
		if policy.MinSizeBytes >= policy.MaxSizeBytes {
			return nil, fmt.Errorf("upload: %s policy needs min size %d below max size %d",
				policy.Category, policy.MinSizeBytes, policy.MaxSizeBytes)
		}
		if len(policy.contentTypes) == 0 {
			return nil, fmt.Errorf("upload: %s policy has no content types", policy.Category)
		}
		registry.policies[policy.Category] = policy
	}

	for _, category := range Categories() {
		if _, ok := registry.policies[category]; !ok {
			return nil, fmt.Errorf("upload: no policy registered for %s", category)
		}
	}

	return registry, nil
}

// PolicyFor returns the policy of category. An error means a category without
// a policy, which NewRegistry already rules out for every known category.
func (registry *Registry) PolicyFor(category Category) (Policy, error) {
	policy, ok := registry.policies[category]
	if !ok {
		return Policy{}, fmt.Errorf("upload: no policy registered for category %q", category)
	}
	return policy, nil
}

// Limits returns the cross-category limits.
func (registry *Registry) Limits() Limits {
	return registry.limits
}

func newPolicy(category Category, minBytes, maxBytes int64, typeMessage, noun string, contentTypes ...string) Policy {
	set := make(map[string]struct{}, len(contentTypes))
	for _, contentType := range contentTypes {
		set[strings.ToLower(contentType)] = struct{}{}
	}
	return Policy{
		Category:     category,
		MinSizeBytes: minBytes,
		MaxSizeBytes: maxBytes,
		Messages: Messages{
			WrongType: typeMessage,
			WrongSize: fmt.Sprintf("%s must be between %s and %s", noun, FormatBytes(minBytes), FormatBytes(maxBytes)),
		},
		contentTypes: set,
	}
}

// FormatBytes renders n as a whole MB, KB or byte count for messages.
func FormatBytes(n int64) string {
	switch {
	case n >= MiB && n%MiB == 0:
		return fmt.Sprintf("%dMB", n/MiB)
	case n >= KiB && n%KiB == 0:
		return fmt.Sprintf("%dKB", n/KiB)
	default:
		return fmt.Sprintf("%d bytes", n)
	}
}
