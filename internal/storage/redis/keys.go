package redis

import (
	"fmt"

	"github.com/lcrawf/moonhollow/internal/model"
)

// Key prefix for all stored data
const keyPrefix = "moonhollow"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// accountKey returns the Redis key for an Account
func accountKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, playerID)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// recordKey returns the Redis key for a finished-game record
func recordKey(id string) string {
	return fmt.Sprintf("%s:record:%s", keyPrefix, id)
}

// recordIndexKey returns the Redis key for the LIST of record ids in
// completion order
func recordIndexKey() string {
	return fmt.Sprintf("%s:idx:records", keyPrefix)
}
