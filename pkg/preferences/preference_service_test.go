package preferences

import (
	"context"
	"errors"
	"testing"

	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSyncer struct {
	lastUserID string
	lastPrefs  domain.Preferences
	err        error
}

func (r *recordingSyncer) SyncPreferences(ctx context.Context, userID string, prefs domain.Preferences) error {
	r.lastUserID = userID
	r.lastPrefs = prefs
	return r.err
}

func TestPreferences_SaveAndGetRoundTrip(t *testing.T) {
	service := NewPreferenceService(session.NewMemoryStore(), nil)

	prefs := domain.Preferences{Allergens: []string{"D", "N"}, Diets: []string{"VG"}}
	require.NoError(t, service.Save(context.Background(), "sess", prefs, ""))

	got := service.Get(context.Background(), "sess")
	assert.Equal(t, []string{"D", "N"}, got.Allergens)
	assert.Equal(t, []string{"VG"}, got.Diets)

	// A different session sees nothing.
	other := service.Get(context.Background(), "other")
	assert.Empty(t, other.Allergens)
	assert.Empty(t, other.Diets)
}

func TestPreferences_GetDegradesToEmpty(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), "sess", session.NamespacePreferences, []byte("{broken")))

	service := NewPreferenceService(store, nil)
	got := service.Get(context.Background(), "sess")
	assert.NotNil(t, got.Allergens)
	assert.Empty(t, got.Allergens)
	assert.Empty(t, got.Diets)
}

func TestPreferences_SaveSyncsProfileBestEffort(t *testing.T) {
	syncer := &recordingSyncer{}
	service := NewPreferenceService(session.NewMemoryStore(), syncer)

	prefs := domain.Preferences{Allergens: []string{"G"}, Diets: []string{}}
	require.NoError(t, service.Save(context.Background(), "sess", prefs, "user-1"))
	assert.Equal(t, "user-1", syncer.lastUserID)
	assert.Equal(t, []string{"G"}, syncer.lastPrefs.Allergens)

	// A failing sync never fails the save; the session copy holds.
	syncer.err = errors.New("db down")
	require.NoError(t, service.Save(context.Background(), "sess", prefs, "user-1"))
	assert.Equal(t, []string{"G"}, service.Get(context.Background(), "sess").Allergens)
}

func TestPreferences_ResetAndConsent(t *testing.T) {
	service := NewPreferenceService(session.NewMemoryStore(), nil)

	prefs := domain.Preferences{Allergens: []string{"D"}, Diets: []string{"V"}}
	require.NoError(t, service.Save(context.Background(), "sess", prefs, ""))
	require.NoError(t, service.Reset(context.Background(), "sess"))
	assert.Empty(t, service.Get(context.Background(), "sess").Allergens)

	assert.False(t, service.GetConsent(context.Background(), "sess"))
	require.NoError(t, service.SetConsent(context.Background(), "sess", true))
	assert.True(t, service.GetConsent(context.Background(), "sess"))
}
