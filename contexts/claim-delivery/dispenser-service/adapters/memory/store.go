package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"drophub/contexts/claim-delivery/dispenser-service/domain/entities"
	domainerrors "drophub/contexts/claim-delivery/dispenser-service/domain/errors"

	"github.com/google/uuid"
)

// Store keeps every dispenser aggregate in process memory. It backs the
// in-memory module wiring and the application tests, and doubles as the
// Clock and IDGenerator ports the way the production adapters do through
// the database.
type Store struct {
	mu sync.Mutex

	dispensers    map[string]entities.Dispenser
	links         map[string][]entities.DispenserLink
	whitelist     map[string][]entities.WhitelistItem
	verifications map[string]entities.ReclaimVerification
	handles       map[string]map[string]entities.Handle
}

func NewStore() *Store {
	return &Store{
		dispensers:    make(map[string]entities.Dispenser),
		links:         make(map[string][]entities.DispenserLink),
		whitelist:     make(map[string][]entities.WhitelistItem),
		verifications: make(map[string]entities.ReclaimVerification),
		handles:       make(map[string]map[string]entities.Handle),
	}
}

func (s *Store) CreateDispenser(_ context.Context, dispenser entities.Dispenser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dispensers[dispenser.ID] = dispenser
	return nil
}

func (s *Store) GetDispenser(_ context.Context, dispenserID string) (entities.Dispenser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dispenser, ok := s.dispensers[strings.TrimSpace(dispenserID)]
	if !ok {
		return entities.Dispenser{}, domainerrors.ErrDispenserNotFound
	}
	return dispenser, nil
}

func (s *Store) GetDispenserByMultiscanQRID(_ context.Context, multiscanQRID string) (entities.Dispenser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, dispenser := range s.dispensers {
		if strings.EqualFold(dispenser.MultiscanQRID, multiscanQRID) {
			return dispenser, nil
		}
	}
	return entities.Dispenser{}, domainerrors.ErrDispenserNotFound
}

func (s *Store) ListDispensersByCreator(_ context.Context, creatorAddress string) ([]entities.Dispenser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]entities.Dispenser, 0)
	for _, dispenser := range s.dispensers {
		if strings.EqualFold(dispenser.CreatorAddress, creatorAddress) {
			items = append(items, dispenser)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateDispenser(_ context.Context, dispenser entities.Dispenser) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.dispensers[dispenser.ID]
	if !ok {
		return domainerrors.ErrDispenserNotFound
	}
	// Popped is owned by AdvancePopped; settings updates never touch it.
	dispenser.Popped = stored.Popped
	s.dispensers[dispenser.ID] = dispenser
	return nil
}

func (s *Store) AdvancePopped(_ context.Context, dispenserID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dispenser, ok := s.dispensers[dispenserID]
	if !ok {
		return 0, domainerrors.ErrDispenserNotFound
	}
	dispenser.Popped++
	s.dispensers[dispenserID] = dispenser
	return dispenser.Popped, nil
}

func (s *Store) CreateLinks(_ context.Context, links []entities.DispenserLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, link := range links {
		for _, existing := range s.links[link.DispenserID] {
			if existing.ID == link.ID || existing.LinkNumber == link.LinkNumber {
				return domainerrors.ErrDuplicateLinks
			}
		}
	}
	for _, link := range links {
		s.links[link.DispenserID] = append(s.links[link.DispenserID], link)
	}
	return nil
}

func (s *Store) CountLinks(_ context.Context, dispenserID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.links[dispenserID]), nil
}

func (s *Store) GetLinkByNumber(_ context.Context, dispenserID string, linkNumber int) (entities.DispenserLink, bool, error) {
	return s.findLink(dispenserID, func(link entities.DispenserLink) bool {
		return link.LinkNumber == linkNumber
	})
}

func (s *Store) FindLinkByScanID(_ context.Context, dispenserID, scanID string) (entities.DispenserLink, bool, error) {
	return s.findLink(dispenserID, func(link entities.DispenserLink) bool {
		return link.ScanID != "" && link.ScanID == scanID
	})
}

func (s *Store) FindLinkByReceiver(_ context.Context, dispenserID, receiver string) (entities.DispenserLink, bool, error) {
	return s.findLink(dispenserID, func(link entities.DispenserLink) bool {
		return link.Receiver != "" && strings.EqualFold(link.Receiver, receiver)
	})
}

func (s *Store) FindLinkBySessionID(_ context.Context, dispenserID, sessionID string) (entities.DispenserLink, bool, error) {
	return s.findLink(dispenserID, func(link entities.DispenserLink) bool {
		return link.ReclaimSessionID != "" && link.ReclaimSessionID == sessionID
	})
}

func (s *Store) FindLinkByID(_ context.Context, linkID string) (entities.DispenserLink, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, links := range s.links {
		for _, link := range links {
			if link.ID == linkID {
				return link, true, nil
			}
		}
	}
	return entities.DispenserLink{}, false, nil
}

func (s *Store) UpdateLink(_ context.Context, link entities.DispenserLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	links := s.links[link.DispenserID]
	for i := range links {
		if links[i].ID == link.ID {
			links[i] = link
			return nil
		}
	}
	return domainerrors.ErrClaimLinkNotFound
}

func (s *Store) DeleteLinks(_ context.Context, dispenserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.links, dispenserID)
	return nil
}

func (s *Store) findLink(dispenserID string, match func(entities.DispenserLink) bool) (entities.DispenserLink, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, link := range s.links[dispenserID] {
		if match(link) {
			return link, true, nil
		}
	}
	return entities.DispenserLink{}, false, nil
}

func (s *Store) ReplaceWhitelist(_ context.Context, dispenserID string, items []entities.WhitelistItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.whitelist[dispenserID] = append([]entities.WhitelistItem(nil), items...)
	return nil
}

func (s *Store) CountWhitelist(_ context.Context, dispenserID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.whitelist[dispenserID]), nil
}

func (s *Store) HasWhitelistValue(_ context.Context, dispenserID string, kind entities.WhitelistKind, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.whitelist[dispenserID] {
		if item.Kind == kind && strings.EqualFold(item.Value, value) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ListWhitelistValues(_ context.Context, dispenserID string, kind entities.WhitelistKind) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := make([]string, 0)
	for _, item := range s.whitelist[dispenserID] {
		if item.Kind == kind {
			values = append(values, item.Value)
		}
	}
	return values, nil
}

func (s *Store) UpsertPendingVerification(_ context.Context, sessionID string) (entities.ReclaimVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	verification, ok := s.verifications[sessionID]
	if !ok {
		verification = entities.ReclaimVerification{SessionID: sessionID, CreatedAt: now}
	}
	verification.Status = entities.VerificationStatusPending
	verification.Cause = ""
	verification.Message = ""
	verification.UpdatedAt = now
	s.verifications[sessionID] = verification
	return verification, nil
}

func (s *Store) GetVerification(_ context.Context, sessionID string) (entities.ReclaimVerification, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	verification, ok := s.verifications[sessionID]
	return verification, ok, nil
}

func (s *Store) UpdateVerification(_ context.Context, verification entities.ReclaimVerification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.verifications[verification.SessionID]; !ok {
		return domainerrors.ErrVerificationNotFound
	}
	s.verifications[verification.SessionID] = verification
	return nil
}

func (s *Store) FindHandle(_ context.Context, dispenserID, handle string) (entities.Handle, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.handles[dispenserID][strings.ToLower(handle)]
	return record, ok, nil
}

func (s *Store) CreateHandle(_ context.Context, handle entities.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handles[handle.DispenserID]; !ok {
		s.handles[handle.DispenserID] = make(map[string]entities.Handle)
	}
	s.handles[handle.DispenserID][strings.ToLower(handle.Handle)] = handle
	return nil
}

func (s *Store) UpdateHandle(_ context.Context, handle entities.Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handles[handle.DispenserID][strings.ToLower(handle.Handle)]; !ok {
		return domainerrors.ErrVerificationNotFound
	}
	s.handles[handle.DispenserID][strings.ToLower(handle.Handle)] = handle
	return nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
