// Package chat implements the chat history store: appending exchanges,
// bounded prompt context, retrieval, and deletion over a shared document.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	chatmodel "github.com/lazy-care/backend/internal/model/chat"
	"github.com/lazy-care/backend/internal/service/ai"
	"github.com/lazy-care/backend/internal/store"
)

var (
	ErrEmailRequired   = errors.New("email is required")
	ErrMessageRequired = errors.New("message is required")
	// ErrDeleteVerification reports that records for an owner survived a
	// delete-all after the rewrite, e.g. because of a concurrent writer.
	ErrDeleteVerification = errors.New("chat history still present after deletion")
)

// DefaultHistoryLimit bounds how many prior exchanges feed the prompt.
const DefaultHistoryLimit = 5

// Service is the chat history store. All read-modify-write cycles over the
// backing document are serialized through the service mutex.
type Service struct {
	mu           sync.Mutex
	store        store.Store
	completer    ai.Completer
	historyLimit int
}

// NewService creates a chat history store over the given document store and
// completion collaborator. historyLimit values below 1 fall back to the
// default.
func NewService(st store.Store, completer ai.Completer, historyLimit int) *Service {
	if historyLimit < 1 {
		historyLimit = DefaultHistoryLimit
	}
	return &Service{
		store:        st,
		completer:    completer,
		historyLimit: historyLimit,
	}
}

// AppendExchange generates a completion for the user's message and appends
// the resulting record to the owner's log. The log is only rewritten after a
// successful collaborator response, so a failed append never persists a
// partial record.
func (s *Service) AppendExchange(ctx context.Context, email, message string) (chatmodel.Record, error) {
	if email == "" {
		return chatmodel.Record{}, ErrEmailRequired
	}
	if strings.TrimSpace(message) == "" {
		return chatmodel.Record{}, ErrMessageRequired
	}

	history, err := s.ListHistory(ctx, email)
	if err != nil {
		return chatmodel.Record{}, err
	}

	prompt := buildPrompt(history, message, s.historyLimit)
	response, err := s.completer.Complete(ctx, prompt)
	if err != nil {
		return chatmodel.Record{}, fmt.Errorf("failed to generate response: %w", err)
	}

	record := chatmodel.Record{
		Email:      email,
		Message:    message,
		AIResponse: strings.TrimSpace(response),
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	}

	// Reload under the lock: the collaborator call above may have taken long
	// enough for another request to rewrite the document.
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := chatmodel.Document{History: []chatmodel.Record{}}
	if err := s.store.Load(&doc); err != nil {
		return chatmodel.Record{}, err
	}
	doc.History = append(doc.History, record)
	if err := s.store.Save(&doc); err != nil {
		return chatmodel.Record{}, err
	}

	log.Printf("[chat] stored exchange for %s at %s", email, record.Timestamp)
	return record, nil
}

// ListHistory returns the owner's records sorted newest first. An owner with
// no records yields an empty slice, never an error.
func (s *Service) ListHistory(_ context.Context, email string) ([]chatmodel.Record, error) {
	if email == "" {
		return nil, ErrEmailRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := chatmodel.Document{History: []chatmodel.Record{}}
	if err := s.store.Load(&doc); err != nil {
		return nil, err
	}

	history := make([]chatmodel.Record, 0, len(doc.History))
	for _, rec := range doc.History {
		if rec.Email == email {
			history = append(history, rec)
		}
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].Time().After(history[j].Time())
	})
	return history, nil
}

// DeleteMessage removes at most one record matching the owner and timestamp.
// It reports whether a record was removed; a missing record is not an error.
func (s *Service) DeleteMessage(_ context.Context, email, timestamp string) (bool, error) {
	if email == "" {
		return false, ErrEmailRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := chatmodel.Document{History: []chatmodel.Record{}}
	if err := s.store.Load(&doc); err != nil {
		return false, err
	}

	kept := make([]chatmodel.Record, 0, len(doc.History))
	for _, rec := range doc.History {
		if rec.Email == email && rec.Timestamp == timestamp {
			continue
		}
		kept = append(kept, rec)
	}

	if len(kept) == len(doc.History) {
		return false, nil
	}

	doc.History = kept
	if err := s.store.Save(&doc); err != nil {
		return false, err
	}
	return true, nil
}

// DeleteAll removes every record for the owner and re-reads the persisted
// document to confirm none remain. It returns the number of records removed;
// zero with a nil error means the owner had no history.
func (s *Service) DeleteAll(_ context.Context, email string) (int, error) {
	if email == "" {
		return 0, ErrEmailRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := chatmodel.Document{History: []chatmodel.Record{}}
	if err := s.store.Load(&doc); err != nil {
		return 0, err
	}

	kept := make([]chatmodel.Record, 0, len(doc.History))
	removed := 0
	for _, rec := range doc.History {
		if rec.Email == email {
			removed++
			continue
		}
		kept = append(kept, rec)
	}

	if removed == 0 {
		return 0, nil
	}

	doc.History = kept
	if err := s.store.Save(&doc); err != nil {
		return 0, err
	}

	// Read back to confirm the rewrite stuck.
	check := chatmodel.Document{History: []chatmodel.Record{}}
	if err := s.store.Load(&check); err != nil {
		return 0, err
	}
	for _, rec := range check.History {
		if rec.Email == email {
			return 0, fmt.Errorf("%w: email=%s", ErrDeleteVerification, email)
		}
	}

	return removed, nil
}

// buildPrompt renders the last limit exchanges oldest-first, followed by the
// new user message, in the input/response pair format the model expects.
func buildPrompt(newestFirst []chatmodel.Record, message string, limit int) string {
	recent := newestFirst
	if len(recent) > limit {
		recent = recent[:limit]
	}

	var b strings.Builder
	// Walk backwards so the prompt reads chronologically.
	for i := len(recent) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "User: %s\nAssistant: %s\n", recent[i].Message, recent[i].AIResponse)
	}
	fmt.Fprintf(&b, "User: %s\nAssistant:", message)
	return b.String()
}
