// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// MusicTrackTable represents the 'music.track' table
type MusicTrackTable struct {
	Table      string
	ID         string
	Slug       string
	Title      string
	Artist     string
	UploaderID string
	CreatedAt  string
	DeletedAt  string
}

// MusicTrack is the schema definition for music.track
var MusicTrack = MusicTrackTable{
	Table:      "music.track",
	ID:         "id",
	Slug:       "slug",
	Title:      "title",
	Artist:     "artist",
	UploaderID: "uploaderid",
	CreatedAt:  "createdat",
	DeletedAt:  "deletedat",
}

// MusicTrackAssetTable represents the 'music.trackasset' table
type MusicTrackAssetTable struct {
	Table        string
	TrackID      string
	Kind         string
	Path         string
	ContentType  string
	SizeBytes    string
	OriginalName string
}

// MusicTrackAsset is the schema definition for music.trackasset
var MusicTrackAsset = MusicTrackAssetTable{
	Table:        "music.trackasset",
	TrackID:      "trackid",
	Kind:         "kind",
	Path:         "path",
	ContentType:  "contenttype",
	SizeBytes:    "sizebytes",
	OriginalName: "originalname",
}
