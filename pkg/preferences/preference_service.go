package preferences

import (
	"context"
	"log"

	"github.com/m2-berezin/safedine-app/domain"
	"github.com/m2-berezin/safedine-app/pkg/session"
)

type (
	// ProfileSyncer mirrors saved preferences onto the authenticated user's
	// profile row. The session copy stays authoritative for rendering.
	ProfileSyncer interface {
		SyncPreferences(ctx context.Context, userID string, prefs domain.Preferences) error
	}

	PreferenceService interface {
		Get(ctx context.Context, sessionID string) domain.Preferences
		Save(ctx context.Context, sessionID string, prefs domain.Preferences, userID string) error
		Reset(ctx context.Context, sessionID string) error
		GetConsent(ctx context.Context, sessionID string) bool
		SetConsent(ctx context.Context, sessionID string, accepted bool) error
	}

	preferenceService struct {
		store  session.Store
		syncer ProfileSyncer
	}
)

func NewPreferenceService(store session.Store, syncer ProfileSyncer) PreferenceService {
	return &preferenceService{store: store, syncer: syncer}
}

// Get returns the session's saved preferences. Missing or corrupt stored
// data degrades to empty preferences.
func (s *preferenceService) Get(ctx context.Context, sessionID string) domain.Preferences {
	prefs := domain.Preferences{Allergens: []string{}, Diets: []string{}}
	session.GetJSON(ctx, s.store, sessionID, session.NamespacePreferences, &prefs)
	if prefs.Allergens == nil {
		prefs.Allergens = []string{}
	}
	if prefs.Diets == nil {
		prefs.Diets = []string{}
	}
	return prefs
}

func (s *preferenceService) Save(ctx context.Context, sessionID string, prefs domain.Preferences, userID string) error {
	if err := session.SetJSON(ctx, s.store, sessionID, session.NamespacePreferences, prefs); err != nil {
		return err
	}

	if userID != "" && s.syncer != nil {
		if err := s.syncer.SyncPreferences(ctx, userID, prefs); err != nil {
			// Profile sync is best effort; the session copy already holds
			// the save.
			log.Printf("preference profile sync failed for user %s: %v", userID, err)
		}
	}
	return nil
}

func (s *preferenceService) Reset(ctx context.Context, sessionID string) error {
	return s.store.Remove(ctx, sessionID, session.NamespacePreferences)
}

// GetConsent reports whether the session acknowledged the allergen
// disclaimer. Unset or corrupt reads as not yet consented.
func (s *preferenceService) GetConsent(ctx context.Context, sessionID string) bool {
	var accepted bool
	session.GetJSON(ctx, s.store, sessionID, session.NamespaceConsent, &accepted)
	return accepted
}

func (s *preferenceService) SetConsent(ctx context.Context, sessionID string, accepted bool) error {
	return session.SetJSON(ctx, s.store, sessionID, session.NamespaceConsent, accepted)
}
