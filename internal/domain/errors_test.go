package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByCode(t *testing.T) {
	err := NewError(CodeRoomFull, "room abc is full")

	require.ErrorIs(t, err, ErrRoomFull)
	require.ErrorIs(t, fmt.Errorf("join: %w", err), ErrRoomFull)
	require.NotErrorIs(t, err, ErrRoomNotFound)
}

func TestCodeOf(t *testing.T) {
	require.Equal(t, CodeForbidden, CodeOf(fmt.Errorf("send: %w", ErrForbidden)))
	require.Equal(t, CodeBadRequest, CodeOf(BadRequest("missing roomId")))
	require.Equal(t, CodeInternal, CodeOf(errors.New("boom")))
}
