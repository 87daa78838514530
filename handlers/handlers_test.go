package handlers

import (
	"database/sql/driver"
	"testing"

	"shop-service/config"
	"shop-service/db"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func setupMockDB(t *testing.T) (sqlmock.Sqlmock, func()) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	assert.NoError(t, err)

	original := db.DB
	db.DB = mockDB
	return mock, func() {
		db.DB = original
		mockDB.Close()
	}
}

func configForTests() config.Config {
	return config.Config{
		AppEnv: "test",
		Bcrypt: config.BcryptConfig{Cost: bcrypt.MinCost},
	}
}

// bcryptHashOf matches an argument that is a bcrypt hash of the given
// plaintext but never the plaintext itself.
type bcryptHashOf string

func (b bcryptHashOf) Match(value driver.Value) bool {
	hash, ok := value.(string)
	if !ok {
		return false
	}
	if hash == string(b) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(b)) == nil
}
