package database

import (
	"testing"

	"ride-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
)

func TestConnString(t *testing.T) {
	dsn := ConnString(utils.DatabaseConfig{
		Host:     "db",
		Port:     "5433",
		Name:     "rides",
		User:     "app",
		Password: "p@ss word",
	})

	assert.Equal(t, "postgres://app:p%40ss%20word@db:5433/rides?sslmode=disable", dsn)
}
