package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Pitcher is a catalog entry for one player's pitching profile. Rates are kept
// as the formatted strings the feed delivers ("34.5%"), not numbers.
type Pitcher struct {
	ID                  uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	PlayerName          string         `json:"player_name" gorm:"size:100;uniqueIndex;not null"`
	PlayerImage         string         `json:"player_image"`
	TeamName            string         `json:"team_name" gorm:"size:100;index"`
	TeamLogo            string         `json:"team_logo"`
	StandSide           string         `json:"stand_side" gorm:"size:1"`
	PitchType           string         `json:"pitch_type" gorm:"size:2;index"`
	VelocityRange       string         `json:"velocity_range" gorm:"size:20"`
	UsageRate           string         `json:"usage_rate" gorm:"size:10"`
	ZoneRate            string         `json:"zone_rate" gorm:"size:10"`
	AvgSpinRate         float64        `json:"avg_spin_rate"`
	AvgHorzBreak        float64        `json:"avg_horz_break"`
	AvgInducedVertBreak float64        `json:"avg_induced_vert_break"`
	ArmAngle            float64        `json:"arm_angle"`
	Throws              string         `json:"throws" gorm:"size:1"`
	HeatmapPath         string         `json:"heatmap_path" gorm:"size:200"`
	FeedRecord          datatypes.JSON `json:"-" gorm:"type:jsonb"`
	CreatedAt           time.Time      `json:"created_at"`
}

// TableName returns the table name for GORM
func (Pitcher) TableName() string {
	return "pitchers"
}

const (
	PlaceholderTeamName    = "Unknown"
	PlaceholderPlayerImage = "/static/images/players/default.png"
	PlaceholderHeatmapPath = "/static/heatmaps/default.png"
)

// NewPlaceholderPitcher builds the catalog entry used when a favorite names a
// player the catalog has never seen.
func NewPlaceholderPitcher(name string) *Pitcher {
	return &Pitcher{
		ID:            uuid.New(),
		PlayerName:    name,
		PlayerImage:   PlaceholderPlayerImage,
		TeamName:      PlaceholderTeamName,
		StandSide:     "R",
		PitchType:     "FF",
		VelocityRange: "0-0",
		UsageRate:     "0%",
		ZoneRate:      "0%",
		Throws:        "R",
		HeatmapPath:   PlaceholderHeatmapPath,
		CreatedAt:     time.Now(),
	}
}

// PitcherFilter narrows a catalog listing. Empty fields are ignored.
type PitcherFilter struct {
	Search    string
	TeamName  string
	PitchType string
	Throws    string
}
