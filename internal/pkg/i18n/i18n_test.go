package i18n

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestT(t *testing.T) {
	require.NoError(t, Init("en"))

	ctx := context.Background()
	assert.Equal(t, "You have already checked in today.", T(ctx, "already_checked_in"))

	idCtx := WithLocale(ctx, "id")
	assert.Equal(t, "Anda sudah absen masuk hari ini.", T(idCtx, "already_checked_in"))
}

func TestT_TemplateData(t *testing.T) {
	require.NoError(t, Init("en"))

	got := T(context.Background(), "outside_office", map[string]any{"Distance": 152})
	assert.Equal(t, "You are 152 m from the office, outside the allowed area.", got)
}

func TestT_UnknownMessageFallsBackToID(t *testing.T) {
	require.NoError(t, Init("en"))

	assert.Equal(t, "no_such_message", T(context.Background(), "no_such_message"))
}

func TestT_UnknownLocaleFallsBackToDefault(t *testing.T) {
	require.NoError(t, Init("en"))

	ctx := WithLocale(context.Background(), "fr")
	assert.Equal(t, "Employee not found.", T(ctx, "employee_not_found"))
}

func TestLocaleFromContext(t *testing.T) {
	require.NoError(t, Init("en"))

	assert.Equal(t, "en", LocaleFromContext(context.Background()))
	assert.Equal(t, "id", LocaleFromContext(WithLocale(context.Background(), "id")))
}

func TestMatchAcceptLanguage(t *testing.T) {
	require.NoError(t, Init("en"))

	assert.Equal(t, "id", MatchAcceptLanguage("id-ID,id;q=0.9,en;q=0.8"))
	assert.Equal(t, "en", MatchAcceptLanguage("en-US"))
	assert.Equal(t, "en", MatchAcceptLanguage(""))
	assert.Equal(t, "en", MatchAcceptLanguage("ja"))
}
