// Package cache keeps the latest state of every running session in redis so that a reloading
// client can fetch it without going through the session. Keys live for the length of a session only.
package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/gomodule/redigo/redis"
)

func gameKey(gameID string) string     { return fmt.Sprintf("game.%s.state", gameID) }
func playerKey(playerID string) string { return fmt.Sprintf("player.%s.game", playerID) }

// Snapshots stores JSON snapshots of game states plus a player to game index.
type Snapshots struct {
	pool *redis.Pool
	ttl  int
}

func NewSnapshots(pool *redis.Pool, ttl time.Duration) *Snapshots {
	return &Snapshots{pool: pool, ttl: int(ttl / time.Second)}
}

// Save overwrites the snapshot of the state's game and indexes its players.
func (c *Snapshots) Save(state *models.GameState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	conn := c.pool.Get()
	defer conn.Close()

	if err := SetEx(gameKey(state.ID), data, c.ttl, conn); err != nil {
		return fmt.Errorf("save snapshot %s: %w", state.ID, err)
	}
	for _, p := range state.Players {
		if err := SetEx(playerKey(p.ID), state.ID, c.ttl, conn); err != nil {
			return fmt.Errorf("index player %s: %w", p.ID, err)
		}
	}
	return nil
}

// Load returns the last saved snapshot, or ErrMiss.
func (c *Snapshots) Load(gameID string) (*models.GameState, error) {
	conn := c.pool.Get()
	defer conn.Close()

	data, err := Get(gameKey(gameID), conn)
	if err != nil {
		return nil, err
	}
	state := new(models.GameState)
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", gameID, err)
	}
	return state, nil
}

// GameOf returns the game a player is seated in, or ErrMiss.
func (c *Snapshots) GameOf(playerID string) (string, error) {
	conn := c.pool.Get()
	defer conn.Close()
	return GetString(playerKey(playerID), conn)
}

// Delete drops the snapshot and the index entries that still point at gameID.
func (c *Snapshots) Delete(gameID string, playerIDs []string) error {
	conn := c.pool.Get()
	defer conn.Close()

	keys := []string{gameKey(gameID)}
	for _, id := range playerIDs {
		current, err := GetString(playerKey(id), conn)
		if err == nil && current == gameID {
			keys = append(keys, playerKey(id))
		}
	}
	return Del(conn, keys...)
}
