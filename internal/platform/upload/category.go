// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package upload validates multipart file uploads against per-category policies.

It is made of three parts:

  - Registry: the immutable table of size and content-type policies, one per category.
  - Guard: classifies a file into a category and checks it against that policy.
  - Middleware: streams multipart parts to temporary files, runs the guard on
    each one and removes every temporary file it created once the request ends.

Every rejection is an [apperr.UploadViolation] and renders as HTTP 400.
*/
package upload

import "strings"

// Category selects the policy applied to an uploaded file.
type Category string

const (
	CategoryAudio    Category = "AUDIO"
	CategoryImage    Category = "IMAGE"
	CategoryLyrics   Category = "LYRICS"
	CategoryDocument Category = "DOCUMENT"

	// CategoryGeneric is the classifier fallback when a file cannot be tied to
	// a category. It has no policy; only the general size limit applies.
	CategoryGeneric Category = "GENERIC"
)

// Categories lists every category that owns a policy.
func Categories() []Category {
	return []Category{CategoryAudio, CategoryImage, CategoryLyrics, CategoryDocument}
}

// String returns the category name.
func (c Category) String() string { return string(c) }

// Dir returns the lower-case name used for storage directories.
func (c Category) Dir() string { return strings.ToLower(string(c)) }
