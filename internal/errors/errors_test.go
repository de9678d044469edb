package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsMatchesCode(t *testing.T) {
	err := InvalidArchive("missing xl/workbook.xml", io.ErrUnexpectedEOF)

	assert.True(t, stderrors.Is(err, ErrInvalidArchive))
	assert.False(t, stderrors.Is(err, ErrHeaderNotFound))
	assert.True(t, stderrors.Is(err, io.ErrUnexpectedEOF))
	assert.Equal(t, "missing xl/workbook.xml: unexpected EOF", err.Error())
}

func TestWrap_KeepsCode(t *testing.T) {
	wrapped := Wrap(HeaderNotFound("Data"), "extract failed")
	assert.Equal(t, CodeHeaderNotFound, GetCode(wrapped))
	assert.True(t, IsInputError(wrapped))

	plain := Wrap(fmt.Errorf("boom"), "extract failed")
	assert.Equal(t, CodeInternalError, GetCode(plain))
	assert.False(t, IsInputError(plain))

	assert.Nil(t, Wrap(nil, "nothing"))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("bare")))
}

func TestHeaderNotFound_Message(t *testing.T) {
	assert.Equal(t, "could not find header row (expected 'Employee' and 'Rank')", HeaderNotFound("").Error())
	assert.Contains(t, HeaderNotFound("Data").Error(), `in sheet "Data"`)
}

func TestIsInputError_ThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("upload: %w", InvalidArchive("not a zip", nil))
	assert.True(t, IsInputError(err))
	assert.Equal(t, CodeInvalidArchive, GetCode(err))
	assert.False(t, IsInputError(ConfigInvalid("PORT")))
}
