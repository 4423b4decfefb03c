package storage

import (
	"context"

	"github.com/lcrawf/moonhollow/internal/model"
)

// Storage defines the interface for data persistence. Live room state
// is deliberately not stored here: rooms are in-memory and owned by
// their room task. Storage covers identities, accounts and the
// finished-game records the statistics sink writes.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	DeletePlayer(ctx context.Context, id model.PlayerID) error

	// Account operations
	SaveAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, playerID model.PlayerID) (*model.Account, error)
	GetAccountByUsername(ctx context.Context, username string) (*model.Account, error)

	// Finished-game record operations
	SaveGameRecord(ctx context.Context, record *model.GameRecord) error
	GetGameRecord(ctx context.Context, id string) (*model.GameRecord, error)
	ListGameRecords(ctx context.Context, limit int) ([]*model.GameRecord, error)
}
