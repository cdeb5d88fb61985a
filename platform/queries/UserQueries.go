package queries

import (
	"github.com/DedS3t/monopoly-engine/app/models"
	"github.com/go-pg/pg/v10"
)

func CreateUser(user *models.User, db *pg.DB) error {
	_, err := db.Model(user).Insert()
	return err
}

func GetUserData(id string, db *pg.DB) (*models.User, error) {
	user := &models.User{Id: id}
	if err := db.Model(user).WherePK().Select(); err != nil {
		return nil, err
	}
	return user, nil
}

func GetUserByEmail(email string, db *pg.DB) (*models.User, error) {
	user := new(models.User)
	if err := db.Model(user).Where("email = ?", email).Select(); err != nil {
		return nil, err
	}
	return user, nil
}
