package queries

import (
	"fmt"

	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/go-pg/pg/v10"
)

func VerifyGame(id string, db *pg.DB) bool {
	game := &models.Game{Id: id}
	return db.Model(game).WherePK().Select() == nil
}

func GetGame(id string, db *pg.DB) (*models.Game, error) {
	game := &models.Game{Id: id}
	if err := db.Model(game).WherePK().Select(); err != nil {
		return nil, fmt.Errorf("get game %s: %w", id, err)
	}
	return game, nil
}

func CreateGame(game *models.Game, db *pg.DB) error {
	_, err := db.Model(game).Insert()
	return err
}

// OpenGames lists the lobbies that have not started.
func OpenGames(db *pg.DB) ([]models.Game, error) {
	var games []models.Game
	err := db.Model(&games).Where("status = ?", models.GameStatusOpen).Select()
	return games, err
}

func SetStatus(gameID, status string, db *pg.DB) error {
	game := &models.Game{Id: gameID}
	_, err := db.Model(game).WherePK().Set("status = ?", status).Update()
	return err
}

func CreatePlayer(player models.Roster, db *pg.DB) error {
	_, err := db.Model(&player).Insert()
	return err
}

// Roster returns the seats of a game in join order.
func Roster(gameID string, db *pg.DB) ([]models.Roster, error) {
	var players []models.Roster
	err := db.Model(&players).Where("game_id = ?", gameID).Order("seat ASC").Select()
	return players, err
}

// DeletePlayer removes a seat and the lobby itself once nobody is left in it.
func DeletePlayer(userID, gameID string, db *pg.DB) error {
	player := new(models.Roster)
	if _, err := db.Model(player).Where("user_id = ? and game_id = ?", userID, gameID).Delete(); err != nil {
		return err
	}
	return deleteIfEmpty(gameID, db)
}

func deleteIfEmpty(gameID string, db *pg.DB) error {
	n, err := db.Model((*models.Roster)(nil)).Where("game_id = ?", gameID).Count()
	if err != nil || n > 0 {
		return err
	}
	_, err = db.Model((*models.Game)(nil)).Where("id = ?", gameID).Delete()
	return err
}

// CleanUp drops a finished game and its roster.
func CleanUp(gameID string, db *pg.DB) error {
	if _, err := db.Model((*models.Roster)(nil)).Where("game_id = ?", gameID).Delete(); err != nil {
		return err
	}
	_, err := db.Model((*models.Game)(nil)).Where("id = ?", gameID).Delete()
	return err
}

// Store adapts the query functions to a single handle.
type Store struct {
	DB *pg.DB
}

func (s Store) Game(id string) (*models.Game, error)          { return GetGame(id, s.DB) }
func (s Store) Roster(gameID string) ([]models.Roster, error) { return Roster(gameID, s.DB) }
func (s Store) AddSeat(r models.Roster) error                 { return CreatePlayer(r, s.DB) }
func (s Store) RemoveSeat(userID, gameID string) error        { return DeletePlayer(userID, gameID, s.DB) }
func (s Store) SetStatus(gameID, status string) error         { return SetStatus(gameID, status, s.DB) }
func (s Store) CleanUp(gameID string) error                   { return CleanUp(gameID, s.DB) }
