package service

import (
	"context"
	"errors"
	"strings"

	dom "github.com/Selalualwayskadangkidding/dn-tracker/internal/domain"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/repo"
	"github.com/Selalualwayskadangkidding/dn-tracker/internal/utils"
)

var (
	ErrEmptyName       = errors.New("character name is required")
	ErrCharacterExists = errors.New("character name already taken")
)

// CharacterService manages the user's character roster.
type CharacterService struct {
	repo     repo.CharacterRepo
	progress *ProgressService
}

func NewCharacterService(r repo.CharacterRepo, progress *ProgressService) *CharacterService {
	return &CharacterService{repo: r, progress: progress}
}

func (s *CharacterService) List(ctx context.Context, userID int64) ([]dom.Character, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create adds a character and drops the user's boards so the new character
// shows up on the next board load.
func (s *CharacterService) Create(ctx context.Context, userID int64, name, class string) (dom.Character, error) {
	name = strings.TrimSpace(name)
	class = strings.TrimSpace(class)
	if name == "" {
		return dom.Character{}, ErrEmptyName
	}
	c, err := s.repo.Create(ctx, userID, name, class)
	if err != nil {
		if utils.IsPGUniqueViolation(err) {
			return dom.Character{}, ErrCharacterExists
		}
		return dom.Character{}, err
	}
	s.progress.Forget(ctx, userID)
	return c, nil
}
