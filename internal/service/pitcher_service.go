package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dom/pitcher-favorites/internal/domain"
	"github.com/dom/pitcher-favorites/internal/metrics"
	"github.com/dom/pitcher-favorites/internal/repository"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type PitcherService struct {
	pitcherRepo repository.PitcherRepository
	log         *zap.Logger
	metrics     *metrics.Metrics
}

func NewPitcherService(pitcherRepo repository.PitcherRepository, log *zap.Logger, m *metrics.Metrics) *PitcherService {
	return &PitcherService{
		pitcherRepo: pitcherRepo,
		log:         log,
		metrics:     m,
	}
}

func (s *PitcherService) List(ctx context.Context, filter domain.PitcherFilter) ([]*domain.Pitcher, error) {
	return s.pitcherRepo.List(ctx, filter)
}

func (s *PitcherService) Get(ctx context.Context, id uuid.UUID) (*domain.Pitcher, error) {
	pitcher, err := s.pitcherRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPitcherNotFound
		}
		return nil, err
	}
	return pitcher, nil
}

// FeedRecord is one entry of the pitcher JSON feed.
type FeedRecord struct {
	PlayerName          string  `json:"player_name"`
	PlayerImage         string  `json:"player_image"`
	TeamName            string  `json:"team_name"`
	TeamLogo            string  `json:"team_logo"`
	StandSide           string  `json:"stand_side"`
	PitchType           string  `json:"pitch_type"`
	VelocityRange       string  `json:"velocity_range"`
	UsageRate           string  `json:"usage_rate"`
	ZoneRate            string  `json:"zone_rate"`
	AvgSpinRate         float64 `json:"avg_spin_rate"`
	AvgHorzBreak        float64 `json:"avg_horz_break"`
	AvgInducedVertBreak float64 `json:"avg_induced_vert_break"`
	ArmAngle            float64 `json:"arm_angle"`
	Throws              string  `json:"throws"`
	HeatmapPath         string  `json:"heatmap_path"`
}

func (r FeedRecord) toPitcher(raw []byte) *domain.Pitcher {
	return &domain.Pitcher{
		ID:                  uuid.New(),
		PlayerName:          r.PlayerName,
		PlayerImage:         r.PlayerImage,
		TeamName:            r.TeamName,
		TeamLogo:            r.TeamLogo,
		StandSide:           r.StandSide,
		PitchType:           r.PitchType,
		VelocityRange:       r.VelocityRange,
		UsageRate:           r.UsageRate,
		ZoneRate:            r.ZoneRate,
		AvgSpinRate:         r.AvgSpinRate,
		AvgHorzBreak:        r.AvgHorzBreak,
		AvgInducedVertBreak: r.AvgInducedVertBreak,
		ArmAngle:            r.ArmAngle,
		Throws:              r.Throws,
		HeatmapPath:         r.HeatmapPath,
		FeedRecord:          datatypes.JSON(raw),
		CreatedAt:           time.Now(),
	}
}

type ImportResult struct {
	Created  int
	Existing int
	Invalid  int
}

// Import loads a JSON array of feed records. Pitchers are matched by player
// name; existing entries are left untouched.
func (s *PitcherService) Import(ctx context.Context, feed []byte) (*ImportResult, error) {
	var rawRecords []json.RawMessage
	if err := json.Unmarshal(feed, &rawRecords); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	result := &ImportResult{}
	for i, raw := range rawRecords {
		var rec FeedRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			s.log.Warn("skipping malformed feed record", zap.Int("index", i), zap.Error(err))
			result.Invalid++
			continue
		}
		if strings.TrimSpace(rec.PlayerName) == "" {
			s.log.Warn("skipping feed record without player_name", zap.Int("index", i))
			result.Invalid++
			continue
		}

		created, err := s.pitcherRepo.CreateIfAbsent(ctx, rec.toPitcher(raw))
		if err != nil {
			return result, fmt.Errorf("import %q: %w", rec.PlayerName, err)
		}
		if created {
			result.Created++
			s.metrics.PitchersImported.Inc()
		} else {
			result.Existing++
		}
	}

	s.log.Info("pitcher feed imported",
		zap.Int("created", result.Created),
		zap.Int("existing", result.Existing),
		zap.Int("invalid", result.Invalid),
	)
	return result, nil
}
