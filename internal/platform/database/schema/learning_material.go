// Copyright (c) 2026 Cadenza. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LearningMaterialTable represents the 'learning.material' table
type LearningMaterialTable struct {
	Table        string
	ID           string
	LessonID     string
	UploaderID   string
	Title        string
	Path         string
	ContentType  string
	SizeBytes    string
	OriginalName string
	CreatedAt    string
}

// LearningMaterial is the schema definition for learning.material
var LearningMaterial = LearningMaterialTable{
	Table:        "learning.material",
	ID:           "id",
	LessonID:     "lessonid",
	UploaderID:   "uploaderid",
	Title:        "title",
	Path:         "path",
	ContentType:  "contenttype",
	SizeBytes:    "sizebytes",
	OriginalName: "originalname",
	CreatedAt:    "createdat",
}
