package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"fieldbook/internal/meetings/repository"
	"fieldbook/pkg/config"
	apperrors "fieldbook/pkg/errors"
	"fieldbook/pkg/logger"
	"fieldbook/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type mockMeetingRepository struct {
	insertFunc    func(ctx context.Context, meeting *model.Meeting) error
	findByKeyFunc func(ctx context.Context, teamID, date string, mtype model.MeetingType) (*model.Meeting, error)
}

func (m *mockMeetingRepository) Insert(ctx context.Context, meeting *model.Meeting) error {
	return m.insertFunc(ctx, meeting)
}

func (m *mockMeetingRepository) FindByKey(ctx context.Context, teamID, date string, mtype model.MeetingType) (*model.Meeting, error) {
	return m.findByKeyFunc(ctx, teamID, date, mtype)
}

func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
}

func testConfig() *config.Config {
	return &config.Config{Log: logger.New(logger.Config{Output: io.Discard})}
}

func TestResolve_ExistingMeetingReused(t *testing.T) {
	repo := &mockMeetingRepository{
		findByKeyFunc: func(ctx context.Context, teamID, date string, mtype model.MeetingType) (*model.Meeting, error) {
			return &model.Meeting{ID: "meet-1", TeamID: teamID, Date: date, Type: mtype}, nil
		},
		insertFunc: func(ctx context.Context, meeting *model.Meeting) error {
			t.Fatal("insert should not be called when the meeting exists")
			return nil
		},
	}

	resolver := NewMeetingResolver(repo, testConfig())
	id, err := resolver.Resolve(context.Background(), "team-a", "2026-05-01", model.MeetingTypeMeeting)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "meet-1" {
		t.Errorf("expected meet-1, got %s", id)
	}
}

func TestResolve_CreatesWhenMissing(t *testing.T) {
	repo := &mockMeetingRepository{
		findByKeyFunc: func(ctx context.Context, teamID, date string, mtype model.MeetingType) (*model.Meeting, error) {
			return nil, repository.ErrNotFound
		},
		insertFunc: func(ctx context.Context, meeting *model.Meeting) error {
			meeting.ID = "meet-new"
			return nil
		},
	}

	resolver := NewMeetingResolver(repo, testConfig())
	id, err := resolver.Resolve(context.Background(), "team-a", "2026-05-01", model.MeetingTypePreparation)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "meet-new" {
		t.Errorf("expected meet-new, got %s", id)
	}
}

func TestResolve_DuplicateKeyRereadsWinner(t *testing.T) {
	reads := 0
	repo := &mockMeetingRepository{
		findByKeyFunc: func(ctx context.Context, teamID, date string, mtype model.MeetingType) (*model.Meeting, error) {
			reads++
			if reads == 1 {
				return nil, repository.ErrNotFound
			}
			return &model.Meeting{ID: "meet-winner"}, nil
		},
		insertFunc: func(ctx context.Context, meeting *model.Meeting) error {
			return duplicateKeyError()
		},
	}

	resolver := NewMeetingResolver(repo, testConfig())
	id, err := resolver.Resolve(context.Background(), "team-a", "2026-05-01", model.MeetingTypeMeeting)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "meet-winner" {
		t.Errorf("expected meet-winner, got %s", id)
	}
	if reads != 2 {
		t.Errorf("expected 2 reads, got %d", reads)
	}
}

func TestResolve_InvalidKeyRejected(t *testing.T) {
	repo := &mockMeetingRepository{
		findByKeyFunc: func(ctx context.Context, teamID, date string, mtype model.MeetingType) (*model.Meeting, error) {
			t.Fatal("repository should not be reached for an invalid key")
			return nil, nil
		},
	}

	resolver := NewMeetingResolver(repo, testConfig())
	_, err := resolver.Resolve(context.Background(), "team-a", "05/01/2026", model.MeetingTypeMeeting)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeInvalidInput {
		t.Errorf("expected invalid input error, got %v", err)
	}
}

func TestResolve_StorageErrorSurfaced(t *testing.T) {
	repo := &mockMeetingRepository{
		findByKeyFunc: func(ctx context.Context, teamID, date string, mtype model.MeetingType) (*model.Meeting, error) {
			return nil, errors.New("connection reset")
		},
	}

	resolver := NewMeetingResolver(repo, testConfig())
	_, err := resolver.Resolve(context.Background(), "team-a", "2026-05-01", model.MeetingTypeMeeting)
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeStorageUnavailable {
		t.Errorf("expected storage unavailable, got %v", err)
	}
}
