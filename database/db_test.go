package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConnectWithoutURL(t *testing.T) {
	client, err := Connect(context.Background(), "")
	assert.Nil(t, client)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestDatabaseWithoutClient(t *testing.T) {
	MongoClient = nil
	assert.Nil(t, Database())
	assert.NoError(t, Close(context.Background()))
}
