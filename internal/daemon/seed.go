package daemon

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/gudangku/gudangku/internal/config"
	"github.com/gudangku/gudangku/internal/db/models"
	"github.com/gudangku/gudangku/internal/uniuri"
)

func seed(_ *config.Config, db *gorm.DB) {
	// Seed an initial admin if the user table is empty.

	var count int64
	db.Model(&models.User{}).Count(&count)

	if count == 0 {
		password := uniuri.NewLen(16)

		db.Create(
			&models.User{
				ID:       uuid.NewString(),
				Name:     "Administrator",
				Email:    "admin@local",
				Password: models.HashPassword(password),
				Role:     models.RoleAdmin,
				Verified: true,
			},
		)

		// Printed exactly once; change it after the first login.
		log.Warn().Msgf("created initial admin user admin@local with password: %s", password)
	}
}
