package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseFieldsRejectsUnreadableDocument(t *testing.T) {
	engine := NewEngine()

	fields, err := engine.ParseFields([]byte("not a pdf"))
	assert.Error(t, err)
	assert.Nil(t, fields)
}

func TestFillRejectsUnreadableDocument(t *testing.T) {
	engine := NewEngine()

	_, err := engine.Fill([]byte("not a pdf"), map[string]string{"First Name": "Ann"})
	assert.Error(t, err)
}
