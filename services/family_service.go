package services

import (
	"PinguinGuard/logger"
	"PinguinGuard/models"
	"PinguinGuard/repositories"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// FamilyService keeps the parent/child links and device tokens that access
// checks and push notifications rely on.
type FamilyService struct {
	parentRepo repositories.ParentRepository
	childRepo  repositories.ChildRepository
	locks      *keyedMutex
	logger     *log.Logger
}

func NewFamilyService(parentRepo repositories.ParentRepository, childRepo repositories.ChildRepository) *FamilyService {
	return &FamilyService{
		parentRepo: parentRepo,
		childRepo:  childRepo,
		locks:      newKeyedMutex(),
		logger:     logger.With("family"),
	}
}

func (s *FamilyService) Children(ctx context.Context, parentUID string) ([]models.Child, error) {
	children, err := s.childRepo.FindByParentUID(ctx, parentUID)
	if err != nil {
		return nil, err
	}
	if children == nil {
		children = []models.Child{}
	}
	return children, nil
}

// LinkChild attaches childUID to parentUID, creating the child record when
// it does not exist. Relinking to the same parent only updates the name.
func (s *FamilyService) LinkChild(ctx context.Context, parentUID, childUID, name string) (models.Child, error) {
	if strings.TrimSpace(childUID) == "" {
		return models.Child{}, fmt.Errorf("%w: child uid is required", models.ErrInvalidPolicy)
	}

	unlock := s.locks.Lock(childUID)
	defer unlock()

	child, err := s.childRepo.FindByFirebaseUID(ctx, childUID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		child = models.Child{FirebaseUID: childUID}
	case err != nil:
		return models.Child{}, err
	case child.ParentUID != "" && !child.BelongsTo(parentUID):
		return models.Child{}, fmt.Errorf("link %s: %w", childUID, models.ErrAlreadyLinked)
	}

	child.ParentUID = parentUID
	if name = strings.TrimSpace(name); name != "" {
		child.Name = name
	}
	if err := s.childRepo.Save(ctx, child); err != nil {
		return models.Child{}, err
	}
	s.logger.Info("child linked", "parent", parentUID, "child", childUID)
	return child, nil
}

// RegisterDeviceToken stores the FCM token of the caller's device. Parents
// are created on first registration; children must be linked first.
func (s *FamilyService) RegisterDeviceToken(ctx context.Context, uid, userType, token, lang string) error {
	unlock := s.locks.Lock(uid)
	defer unlock()

	switch userType {
	case "parent":
		parent, err := s.parentRepo.FindByFirebaseUID(ctx, uid)
		if errors.Is(err, models.ErrNotFound) {
			parent = models.Parent{FirebaseUID: uid}
		} else if err != nil {
			return err
		}
		parent.DeviceToken = token
		if lang != "" {
			parent.Lang = lang
		}
		return s.parentRepo.Save(ctx, parent)

	case "child":
		child, err := s.childRepo.FindByFirebaseUID(ctx, uid)
		if err != nil {
			return err
		}
		child.DeviceToken = token
		if lang != "" {
			child.Lang = lang
		}
		return s.childRepo.Save(ctx, child)
	}
	return fmt.Errorf("unknown user type %q", userType)
}
