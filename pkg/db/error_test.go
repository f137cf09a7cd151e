package db

import (
	"errors"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type uniqueRow struct {
	ID   int64  `gorm:"primaryKey"`
	Code string `gorm:"uniqueIndex"`
}

func TestIsDuplicateKeyErr(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file:dberr?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&uniqueRow{}))

	require.NoError(t, conn.Create(&uniqueRow{ID: 1, Code: "STANDARD"}).Error)
	dup := conn.Create(&uniqueRow{ID: 2, Code: "STANDARD"}).Error
	require.Error(t, dup)

	assert.True(t, IsDuplicateKeyErr(dup))
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))
}
