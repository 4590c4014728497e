package usecase_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/ErlanBelekov/calendar-api/internal/usecase"
	"github.com/google/uuid"
)

const (
	ownerID    = "11111111-1111-1111-1111-111111111111"
	intruderID = "22222222-2222-2222-2222-222222222222"
)

var standupDate = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func standup() usecase.EventInput {
	return usecase.EventInput{Title: "Standup", Description: "daily", Date: standupDate}
}

func TestCreateThenList_RoundTrip(t *testing.T) {
	uc := usecase.NewEventUsecase(newMemEventRepo())
	ctx := context.Background()

	created, err := uc.Create(ctx, ownerID, standup())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	events, err := uc.List(ctx, ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("len = %d, want 1", len(events))
	}
	got := events[0]
	if got.ID != created.ID || got.Title != "Standup" || got.Description != "daily" || !got.Date.Equal(standupDate) {
		t.Errorf("event = %+v", got)
	}
	if got.UserID != ownerID {
		t.Errorf("user_id = %q, want %q", got.UserID, ownerID)
	}
}

func TestList_OnlyOwnEventsInCreationOrder(t *testing.T) {
	uc := usecase.NewEventUsecase(newMemEventRepo())
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		in := standup()
		in.Title = title
		if _, err := uc.Create(ctx, ownerID, in); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := uc.Create(ctx, intruderID, standup()); err != nil {
		t.Fatalf("create: %v", err)
	}

	events, err := uc.List(ctx, ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var titles []string
	for _, e := range events {
		titles = append(titles, e.Title)
	}
	if strings.Join(titles, ",") != "first,second,third" {
		t.Errorf("titles = %v", titles)
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	events, err := usecase.NewEventUsecase(newMemEventRepo()).List(context.Background(), ownerID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if events == nil || len(events) != 0 {
		t.Errorf("events = %v, want empty slice", events)
	}
}

func TestCreate_Validation(t *testing.T) {
	uc := usecase.NewEventUsecase(newMemEventRepo())

	cases := map[string]usecase.EventInput{
		"blank title":    {Title: "   ", Date: standupDate},
		"title too long": {Title: strings.Repeat("a", domain.MaxEventTitleLength+1), Date: standupDate},
		"missing date":   {Title: "Standup"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := uc.Create(context.Background(), ownerID, in)
			if !errors.Is(err, domain.ErrInvalidEvent) {
				t.Errorf("err = %v, want ErrInvalidEvent", err)
			}
		})
	}
}

func TestUpdate_Owner(t *testing.T) {
	uc := usecase.NewEventUsecase(newMemEventRepo())
	ctx := context.Background()

	created, err := uc.Create(ctx, ownerID, standup())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	in := usecase.EventInput{Title: "Retro", Description: "", Date: standupDate.Add(time.Hour)}
	updated, err := uc.Update(ctx, created.ID, ownerID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Retro" || updated.Description != "" || !updated.Date.Equal(in.Date) {
		t.Errorf("updated = %+v", updated)
	}
}

func TestUpdate_CrossUserLeavesEventUnchanged(t *testing.T) {
	uc := usecase.NewEventUsecase(newMemEventRepo())
	ctx := context.Background()

	created, err := uc.Create(ctx, ownerID, standup())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = uc.Update(ctx, created.ID, intruderID, usecase.EventInput{Title: "pwned", Date: standupDate})
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("err = %v, want ErrEventNotFound", err)
	}

	got, err := uc.Get(ctx, created.ID, ownerID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "Standup" {
		t.Errorf("title = %q, event was modified", got.Title)
	}
}

func TestDelete_CrossUserLeavesEventInPlace(t *testing.T) {
	uc := usecase.NewEventUsecase(newMemEventRepo())
	ctx := context.Background()

	created, err := uc.Create(ctx, ownerID, standup())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := uc.Delete(ctx, created.ID, intruderID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("err = %v, want ErrEventNotFound", err)
	}
	if _, err := uc.Get(ctx, created.ID, ownerID); err != nil {
		t.Errorf("event gone after foreign delete: %v", err)
	}

	if err := uc.Delete(ctx, created.ID, ownerID); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
	if _, err := uc.Get(ctx, created.ID, ownerID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("get after delete err = %v", err)
	}
}

func TestDelete_MissingAndForeignAreIndistinguishable(t *testing.T) {
	uc := usecase.NewEventUsecase(newMemEventRepo())
	ctx := context.Background()

	created, err := uc.Create(ctx, ownerID, standup())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	foreign := uc.Delete(ctx, created.ID, intruderID)
	missing := uc.Delete(ctx, uuid.NewString(), intruderID)
	malformed := uc.Delete(ctx, "not-a-uuid", intruderID)

	for name, err := range map[string]error{"foreign": foreign, "missing": missing, "malformed": malformed} {
		if !errors.Is(err, domain.ErrEventNotFound) {
			t.Errorf("%s: err = %v, want ErrEventNotFound", name, err)
		}
	}
}

func TestGet_MalformedID(t *testing.T) {
	_, err := usecase.NewEventUsecase(newMemEventRepo()).Get(context.Background(), "42", ownerID)
	if !errors.Is(err, domain.ErrEventNotFound) {
		t.Errorf("err = %v, want ErrEventNotFound", err)
	}
}
