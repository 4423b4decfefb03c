package stats

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/lcrawf/moonhollow/internal/dependencies/clock"
	"github.com/lcrawf/moonhollow/internal/model"
	"github.com/lcrawf/moonhollow/internal/storage"
)

// Recorder is the statistics sink for finished games. The engine calls
// it exactly once per completed game; the write happens off the room
// task so phase progression never blocks on storage.
type Recorder struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger
}

// New creates a new Recorder
func New(store storage.Storage, clk clock.Clock, logger *slog.Logger) *Recorder {
	return &Recorder{
		storage: store,
		clock:   clk,
		logger:  logger.With(slog.String("component", "stats-recorder")),
	}
}

// RecordGame builds and persists the finished-game record asynchronously
func (r *Recorder) RecordGame(room *model.Room, winner model.Faction) {
	now := r.clock.Now()

	record := &model.GameRecord{
		ID:        uuid.NewString(),
		RoomCode:  room.Code,
		SeatCount: len(room.Seats),
		Winner:    winner,
		Days:      room.Day,
		Duration:  now.Sub(room.GameStartedAt),
		EndedAt:   now,
	}
	for _, s := range room.Seats {
		record.Players = append(record.Players, model.PlayerResult{
			PlayerID: s.PlayerID,
			Role:     s.Role,
			IsBot:    s.IsBot,
			Survived: s.Alive,
			Won:      s.Role.Faction() == winner,
		})
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := r.storage.SaveGameRecord(ctx, record); err != nil {
			r.logger.Error("failed to record finished game",
				slog.String("room", string(record.RoomCode)),
				slog.String("record_id", record.ID),
				slog.String("error", err.Error()),
			)
			return
		}
		r.logger.Info("game recorded",
			slog.String("room", string(record.RoomCode)),
			slog.String("record_id", record.ID),
			slog.String("winner", string(record.Winner)),
			slog.Int("days", record.Days),
		)
	}()
}

// ListRecent returns the most recent finished-game records
func (r *Recorder) ListRecent(ctx context.Context, limit int) ([]*model.GameRecord, error) {
	return r.storage.ListGameRecords(ctx, limit)
}
