package dsn

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gudangku/gudangku/internal/config"
)

func TestCreate(t *testing.T) {
	cfg := &config.Config{
		DB: config.DB{
			User:     "gudangku",
			Password: "rahasia",
			Host:     "127.0.0.1",
			Port:     3306,
			Name:     "gudangku",
			Extras:   "charset=utf8mb4&parseTime=True",
		},
	}

	assert.Equal(t,
		"gudangku:rahasia@tcp(127.0.0.1:3306)/gudangku?charset=utf8mb4&parseTime=True",
		Create(cfg),
	)
}
