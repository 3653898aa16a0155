package session

import (
	"time"
)

// FarmSize is the size category derived from the profile form's farm size label.
type FarmSize string

const (
	FarmSizeSmall     FarmSize = "small"
	FarmSizeMedium    FarmSize = "medium"
	FarmSizeLarge     FarmSize = "large"
	FarmSizeVeryLarge FarmSize = "very_large"
)

// ExperienceLevel is derived from the profile form's experience label.
type ExperienceLevel string

const (
	ExperienceBeginner     ExperienceLevel = "beginner"
	ExperienceIntermediate ExperienceLevel = "intermediate"
	ExperienceExperienced  ExperienceLevel = "experienced"
)

// Profile describes the farm and the farmer driving personalization.
type Profile struct {
	FullName        string          `json:"full_name"`
	Location        string          `json:"location"`
	FarmSize        FarmSize        `json:"farm_size"`
	PrimaryCrops    string          `json:"primary_crops"`
	ExperienceLevel ExperienceLevel `json:"experience_level"`
	CreatedAt       time.Time       `json:"created_at"`
}

// ProfileUpdate carries the editable profile fields. Nil fields are left unchanged.
type ProfileUpdate struct {
	FullName     *string `json:"full_name,omitempty"`
	Location     *string `json:"location,omitempty"`
	PrimaryCrops *string `json:"primary_crops,omitempty"`
}

// WeatherSnapshot is the cached current-conditions reading for the profile location.
type WeatherSnapshot struct {
	TemperatureC int    `json:"temperature_c"`
	HumidityPct  int    `json:"humidity_pct"`
	Description  string `json:"description"`
	IconID       string `json:"icon_id"`
}

// RecommendationKind identifies the advisory page that produced a record.
type RecommendationKind string

const (
	KindCropPlanner    RecommendationKind = "crop_planner"
	KindSoilOptimizer  RecommendationKind = "soil_optimizer"
	KindPestIdentifier RecommendationKind = "pest_identifier"
)

// RecommendationRecord is a saved advisory result. Records are never mutated after creation.
type RecommendationRecord struct {
	ID        string             `json:"id"`
	Kind      RecommendationKind `json:"kind"`
	Title     string             `json:"title"`
	Body      string             `json:"body"` // raw model output
	CreatedAt time.Time          `json:"created_at"`
}

// MessageRole is the author of a transcript entry.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is one transcript entry of the chat page.
type ChatMessage struct {
	Role    MessageRole `json:"role"`
	Content string      `json:"content"`
}
