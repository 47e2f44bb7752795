package service

import (
	"context"
	"errors"
	"fmt"

	"fieldbook/internal/meetings/repository"
	"fieldbook/pkg/config"
	apperrors "fieldbook/pkg/errors"
	"fieldbook/pkg/model"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

const resolveAttempts = 3

// MeetingResolver maps a (team, date, type) tuple to exactly one meeting
// id. Concurrent resolvers of the same tuple converge on the same id.
type MeetingResolver interface {
	Resolve(ctx context.Context, teamID, date string, mtype model.MeetingType) (string, error)
}

type meetingResolver struct {
	repo     repository.MeetingRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewMeetingResolver(repo repository.MeetingRepository, cfg *config.Config) MeetingResolver {
	return &meetingResolver{
		repo:     repo,
		validate: validator.New(),
		cfg:      cfg,
	}
}

// Resolve finds or creates the meeting row for the tuple. The unique
// index on (team_id, date, type) arbitrates races: the loser's insert
// fails with a duplicate key and the winner's row is re-read.
func (s *meetingResolver) Resolve(ctx context.Context, teamID, date string, mtype model.MeetingType) (string, error) {
	candidate := &model.Meeting{
		TeamID: teamID,
		Date:   date,
		Type:   mtype,
	}
	if err := s.validate.Struct(candidate); err != nil {
		return "", apperrors.InvalidInput(fmt.Sprintf("invalid meeting key: %v", err))
	}

	for attempt := 0; attempt < resolveAttempts; attempt++ {
		existing, err := s.repo.FindByKey(ctx, teamID, date, mtype)
		if err == nil {
			return existing.ID, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return "", apperrors.StorageUnavailable(err)
		}

		insert := &model.Meeting{TeamID: teamID, Date: date, Type: mtype}
		err = s.repo.Insert(ctx, insert)
		if err == nil {
			s.cfg.Log.Info("meeting created",
				"meeting_id", insert.ID,
				"team_id", teamID,
				"date", date,
				"type", mtype)
			return insert.ID, nil
		}
		if mongo.IsDuplicateKeyError(err) {
			// Lost the race. Loop around and read the winner.
			continue
		}
		return "", apperrors.StorageUnavailable(err)
	}

	return "", apperrors.Internal("meeting resolution did not converge", nil)
}
