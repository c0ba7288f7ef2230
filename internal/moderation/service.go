package moderation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dkazarov/statusbot/internal/domain/registry"
	"github.com/dkazarov/statusbot/internal/domain/suggestions"
)

var (
	// ErrPermissionDenied means the caller is not on the admin list.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrNotFound means the referenced username is not in the registry.
	ErrNotFound = errors.New("not found")
	// ErrInvalidStatus means the status code is not in the fixed
	// enumeration even after alias normalization.
	ErrInvalidStatus = errors.New("invalid status")
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID       int64
	Username string
	FullName string
}

// Identity returns the actor's registry identity: username when set,
// otherwise the numeric id.
func (a Actor) Identity() string {
	if a.Username != "" {
		return a.Username
	}
	return fmt.Sprintf("%d", a.ID)
}

// RegistryStore is the persistent username→status mapping.
type RegistryStore interface {
	Upsert(ctx context.Context, username string, status registry.Status) error
	Remove(ctx context.Context, username string) error
	GetStatus(ctx context.Context, username string) (registry.Status, bool, error)
	ListAll(ctx context.Context) ([]registry.Record, error)
	CountByStatus(ctx context.Context) (map[registry.Status]int, error)
	CountListed(ctx context.Context) (int, error)
}

// SuggestionQueue is the append-only review queue.
type SuggestionQueue interface {
	Submit(ctx context.Context, username, desiredStatus, proof, reason, suggestedBy string) (int64, error)
	ListPending(ctx context.Context) ([]suggestions.Suggestion, error)
	Decide(ctx context.Context, id int64, outcome suggestions.ReviewStatus) error
}

// AudienceStore holds the blocked-user and bot-user sets.
type AudienceStore interface {
	Block(ctx context.Context, identity string) (bool, error)
	Unblock(ctx context.Context, identity string) (bool, error)
	IsBlocked(ctx context.Context, identity string) (bool, error)
	RecordBotUser(ctx context.Context, identity string) error
	ListBotUsers(ctx context.Context) ([]string, error)
	CountBotUsers(ctx context.Context) (int, error)
}

// AuditSink receives a record of every notable action. Delivery is best
// effort; implementations must not fail the operation.
type AuditSink interface {
	Record(ctx context.Context, actor Actor, action, details string)
}

// Stats is the material of the statistics report.
type Stats struct {
	BotUsers int
	Listed   int
	Admins   int
	ByStatus map[registry.Status]int
}

// Service sequences the authorization gate, the registry and the
// suggestion queue into the operations exposed to users and admins. It
// also owns the process-wide maintenance flag and the listing cache.
type Service struct {
	log      *slog.Logger
	gate     *Gate
	registry RegistryStore
	queue    SuggestionQueue
	audience AudienceStore
	audit    AuditSink
	aliases  map[string]string
	cache    *listingCache

	maintenance atomic.Bool
}

func NewService(log *slog.Logger, gate *Gate, reg RegistryStore, queue SuggestionQueue,
	aud AudienceStore, audit AuditSink, aliases map[string]string) *Service {
	return &Service{
		log:      log,
		gate:     gate,
		registry: reg,
		queue:    queue,
		audience: aud,
		audit:    audit,
		aliases:  aliases,
		cache:    newListingCache(listingTTL, nil),
	}
}

func (s *Service) Gate() *Gate { return s.gate }

// NormalizeStatus maps a localized alias to its canonical status code.
// Unknown input passes through lowercased for the caller to validate.
func (s *Service) NormalizeStatus(raw string) registry.Status {
	return registry.Normalize(s.aliases, raw)
}

func (s *Service) authorize(ctx context.Context, actor Actor, action string) error {
	if s.gate.IsAdmin(actor.ID) {
		return nil
	}
	s.log.Warn("permission denied", "action", action, "actor", actor.ID)
	s.record(ctx, actor, action, "denied")
	return ErrPermissionDenied
}

func (s *Service) record(ctx context.Context, actor Actor, action, details string) {
	if s.audit != nil {
		s.audit.Record(ctx, actor, action, details)
	}
}

// AddUser stores (or replaces) a registry record. Admin only.
func (s *Service) AddUser(ctx context.Context, actor Actor, username string, status registry.Status) error {
	if err := s.authorize(ctx, actor, "add user"); err != nil {
		return err
	}
	if !registry.Valid(status) {
		return ErrInvalidStatus
	}
	if err := s.registry.Upsert(ctx, username, status); err != nil {
		s.log.Error("add user failed", "username", username, "err", err)
		return err
	}
	s.cache.invalidate()
	s.record(ctx, actor, "add user", fmt.Sprintf("@%s → %s", registry.Key(username), status))
	return nil
}

// RemoveUser deletes a registry record. Returns ErrNotFound when no
// record exists for the username.
func (s *Service) RemoveUser(ctx context.Context, actor Actor, username string) error {
	if err := s.authorize(ctx, actor, "remove user"); err != nil {
		return err
	}
	_, ok, err := s.registry.GetStatus(ctx, username)
	if err != nil {
		s.log.Error("remove user failed", "username", username, "err", err)
		return err
	}
	if !ok {
		return ErrNotFound
	}
	if err := s.registry.Remove(ctx, username); err != nil {
		s.log.Error("remove user failed", "username", username, "err", err)
		return err
	}
	s.cache.invalidate()
	s.record(ctx, actor, "remove user", "@"+registry.Key(username))
	return nil
}

// Block adds an identity to the blocked set. Returns false when it was
// already blocked.
func (s *Service) Block(ctx context.Context, actor Actor, identity string) (bool, error) {
	if err := s.authorize(ctx, actor, "block user"); err != nil {
		return false, err
	}
	changed, err := s.audience.Block(ctx, identity)
	if err != nil {
		s.log.Error("block failed", "identity", identity, "err", err)
		return false, err
	}
	s.record(ctx, actor, "block user", "@"+identity)
	return changed, nil
}

// Unblock removes an identity from the blocked set. Returns false when
// it was not blocked.
func (s *Service) Unblock(ctx context.Context, actor Actor, identity string) (bool, error) {
	if err := s.authorize(ctx, actor, "unblock user"); err != nil {
		return false, err
	}
	changed, err := s.audience.Unblock(ctx, identity)
	if err != nil {
		s.log.Error("unblock failed", "identity", identity, "err", err)
		return false, err
	}
	s.record(ctx, actor, "unblock user", "@"+identity)
	return changed, nil
}

// StatusFor resolves a username to its status. A configured admin name
// reports admin unconditionally, ignoring any stored record.
func (s *Service) StatusFor(ctx context.Context, username string) (registry.Status, bool, error) {
	key := registry.Key(username)
	if s.gate.IsAdminName(key) {
		return registry.StatusAdmin, true, nil
	}
	return s.registry.GetStatus(ctx, key)
}

// StatusForActor resolves the caller's own status for the profile view.
func (s *Service) StatusForActor(ctx context.Context, actor Actor) (registry.Status, bool, error) {
	if s.gate.IsAdmin(actor.ID) {
		return registry.StatusAdmin, true, nil
	}
	return s.registry.GetStatus(ctx, actor.Identity())
}

// ListUsers returns the merged listing: configured admins first in
// configured order, then stored records by status priority, identities
// never duplicated. Served from the snapshot cache when fresh.
func (s *Service) ListUsers(ctx context.Context) ([]registry.Record, error) {
	if cached, ok := s.cache.get(); ok {
		return cached, nil
	}
	stored, err := s.registry.ListAll(ctx)
	if err != nil {
		s.log.Error("list users failed", "err", err)
		return nil, err
	}
	merged := make([]registry.Record, 0, s.gate.Count()+len(stored))
	for _, name := range s.gate.Names() {
		merged = append(merged, registry.Record{Username: name, Status: registry.StatusAdmin})
	}
	for _, rec := range stored {
		if s.gate.IsAdminName(rec.Username) {
			continue
		}
		merged = append(merged, rec)
	}
	s.cache.put(merged)
	return merged, nil
}

// Submit normalizes and validates the desired status, then stores a new
// pending suggestion. Returns the assigned id and the canonical status.
func (s *Service) Submit(ctx context.Context, actor Actor, username, desiredRaw, proof, reason string) (int64, registry.Status, error) {
	desired := registry.Normalize(s.aliases, desiredRaw)
	if !registry.Valid(desired) {
		return 0, "", ErrInvalidStatus
	}
	id, err := s.queue.Submit(ctx, registry.Key(username), string(desired), proof, reason, actor.Identity())
	if err != nil {
		s.log.Error("submit suggestion failed", "username", username, "err", err)
		return 0, "", err
	}
	s.record(ctx, actor, "suggestion submitted",
		fmt.Sprintf("@%s → %s (id %d)", registry.Key(username), desired, id))
	return id, desired, nil
}

// Pending lists pending suggestions, newest first. Admin only.
func (s *Service) Pending(ctx context.Context, actor Actor) ([]suggestions.Suggestion, error) {
	if err := s.authorize(ctx, actor, "list suggestions"); err != nil {
		return nil, err
	}
	return s.queue.ListPending(ctx)
}

// Decide records the review outcome for a suggestion. It does not touch
// the registry: promoting an approved suggestion to a real status change
// is a separate, explicit add operation.
func (s *Service) Decide(ctx context.Context, actor Actor, id int64, outcome suggestions.ReviewStatus) error {
	if err := s.authorize(ctx, actor, "decide suggestion"); err != nil {
		return err
	}
	if outcome != suggestions.ReviewApproved && outcome != suggestions.ReviewRejected {
		return ErrInvalidStatus
	}
	if err := s.queue.Decide(ctx, id, outcome); err != nil {
		if !errors.Is(err, suggestions.ErrNotFound) {
			s.log.Error("decide failed", "id", id, "err", err)
		}
		return err
	}
	s.record(ctx, actor, "suggestion decided", fmt.Sprintf("id %d → %s", id, outcome))
	return nil
}

// IsBlocked reports whether an identity is refused interactive use.
func (s *Service) IsBlocked(ctx context.Context, identity string) (bool, error) {
	return s.audience.IsBlocked(ctx, identity)
}

// NoteStart adds the caller to the broadcast audience and records the
// start in the audit sink. The audience set is keyed by numeric chat id.
func (s *Service) NoteStart(ctx context.Context, actor Actor) error {
	if err := s.audience.RecordBotUser(ctx, fmt.Sprintf("%d", actor.ID)); err != nil {
		s.log.Error("record bot user failed", "id", actor.ID, "err", err)
		return err
	}
	s.record(ctx, actor, "start", "")
	return nil
}

// Audience returns the full bot-user set. Admin only.
func (s *Service) Audience(ctx context.Context, actor Actor) ([]string, error) {
	if err := s.authorize(ctx, actor, "broadcast"); err != nil {
		return nil, err
	}
	return s.audience.ListBotUsers(ctx)
}

// SetMaintenance toggles the maintenance flag. Admin only.
func (s *Service) SetMaintenance(ctx context.Context, actor Actor, on bool) error {
	if err := s.authorize(ctx, actor, "maintenance"); err != nil {
		return err
	}
	s.maintenance.Store(on)
	s.record(ctx, actor, "maintenance", fmt.Sprintf("enabled=%t", on))
	return nil
}

// InMaintenance reports whether non-admin requests are being refused.
func (s *Service) InMaintenance() bool {
	return s.maintenance.Load()
}

// CollectStats gathers the statistics report material. Admin only.
func (s *Service) CollectStats(ctx context.Context, actor Actor) (Stats, error) {
	if err := s.authorize(ctx, actor, "statistics"); err != nil {
		return Stats{}, err
	}
	botUsers, err := s.audience.CountBotUsers(ctx)
	if err != nil {
		return Stats{}, err
	}
	listed, err := s.registry.CountListed(ctx)
	if err != nil {
		return Stats{}, err
	}
	byStatus, err := s.registry.CountByStatus(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{
		BotUsers: botUsers,
		Listed:   listed,
		Admins:   s.gate.Count(),
		ByStatus: byStatus,
	}, nil
}
