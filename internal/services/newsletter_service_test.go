package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alpha_backend/pkg/apperrors"
)

func TestNewsletterSubscribe(t *testing.T) {
	repo := newFakeNewsletterRepo()
	mail := newRecordingEmail()
	svc := NewNewsletterService(repo, mail)
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, svc.Subscribe(ctx, db, "reader@example.com"))

	sent := mail.byKind("newsletter")
	require.Len(t, sent, 1)
	assert.Equal(t, "reader@example.com", sent[0].to)

	// Повторная подписка - конфликт, письмо не дублируется
	err := svc.Subscribe(ctx, db, "reader@example.com")
	assert.ErrorIs(t, err, apperrors.ErrAlreadySubscribed)
	assert.Len(t, mail.byKind("newsletter"), 1)
}
