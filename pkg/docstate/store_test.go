package docstate

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func newTestStore() *Store {
	return NewStore(time.Minute, time.Minute)
}

func TestGetOrCreateIsIdempotent(t *testing.T) {
	store := newTestStore()

	first := store.GetOrCreate("sess-1", "general_model_card")
	if first.ID != "sess-1" || first.DocumentType != "general_model_card" {
		t.Fatalf("created session = %+v", first)
	}

	second := store.GetOrCreate("sess-1", "us_risk_assessment")
	if second.DocumentType != "general_model_card" {
		t.Errorf("second call changed document type to %q", second.DocumentType)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("second call created a new session")
	}
}

func TestGetUnknownSession(t *testing.T) {
	store := newTestStore()

	if _, err := store.Get("nope"); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("Get() error = %v, want ErrUnknownSession", err)
	}
}

func TestStoreHandsOutCopies(t *testing.T) {
	store := newTestStore()

	s := store.GetOrCreate("sess-1", "general_model_card")
	s.Values["model_details.name"] = "mutated"

	fresh, err := store.Get("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := fresh.Values["model_details.name"]; ok {
		t.Error("mutating a returned copy leaked into the store")
	}
}

func TestUpdateCreatesWhenMissing(t *testing.T) {
	store := newTestStore()

	updated, err := store.Update("sess-new", "general_model_card", func(s *Session) error {
		s.Values["model_details.name"] = "bert"
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Values["model_details.name"] != "bert" {
		t.Errorf("updated value = %v, want bert", updated.Values["model_details.name"])
	}

	stored, err := store.Get("sess-new")
	if err != nil {
		t.Fatal(err)
	}
	if stored.Values["model_details.name"] != "bert" {
		t.Error("update was not persisted")
	}
}

func TestUpdateErrorDiscardsMutation(t *testing.T) {
	store := newTestStore()
	store.GetOrCreate("sess-1", "general_model_card")

	boom := errors.New("boom")
	if _, err := store.Update("sess-1", "general_model_card", func(s *Session) error {
		s.Values["model_details.name"] = "should not stick"
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("Update() error = %v, want boom", err)
	}

	stored, err := store.Get("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := stored.Values["model_details.name"]; ok {
		t.Error("failed update mutated the stored session")
	}
}

func TestConcurrentUpdatesToDifferentFields(t *testing.T) {
	store := newTestStore()
	const workers = 16

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			path := fmt.Sprintf("section.field_%d", i)
			_, err := store.Update("sess-1", "general_model_card", func(s *Session) error {
				s.Values[path] = fmt.Sprintf("value-%d", i)
				return nil
			})
			if err != nil {
				t.Errorf("Update() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	stored, err := store.Get("sess-1")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < workers; i++ {
		path := fmt.Sprintf("section.field_%d", i)
		want := fmt.Sprintf("value-%d", i)
		if stored.Values[path] != want {
			t.Errorf("Values[%q] = %v, want %q", path, stored.Values[path], want)
		}
	}
}

func TestDeleteRemovesSession(t *testing.T) {
	store := newTestStore()
	store.GetOrCreate("sess-1", "general_model_card")

	store.Delete("sess-1")

	if _, err := store.Get("sess-1"); !errors.Is(err, ErrUnknownSession) {
		t.Errorf("Get() after Delete error = %v, want ErrUnknownSession", err)
	}
}
