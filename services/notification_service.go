package services

import (
	"PinguinGuard/interfaces"
	"PinguinGuard/logger"
	"PinguinGuard/models"
	"PinguinGuard/repositories"
	"context"
	"fmt"

	"firebase.google.com/go/v4/messaging"
	"github.com/charmbracelet/log"
)

// MessageSender is the part of *messaging.Client used for pushes.
type MessageSender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

const pushTest = "push.test"

type pushText struct {
	title string
	body  string
}

// Тексты уведомлений по языку пользователя
var pushTexts = map[string]map[string]pushText{
	"en": {
		interfaces.EventUnblockRequestCreated: {"Unblock request", "%s asks for access: %s"},
		string(models.RequestStatusApproved):  {"Request approved", "Your parent approved your request"},
		string(models.RequestStatusRejected):  {"Request rejected", "Your parent rejected your request"},
		pushTest:                              {"PinguinGuard", "Notifications are working"},
	},
	"ru": {
		interfaces.EventUnblockRequestCreated: {"Запрос на разблокировку", "%s просит доступ: %s"},
		string(models.RequestStatusApproved):  {"Запрос одобрен", "Родитель одобрил ваш запрос"},
		string(models.RequestStatusRejected):  {"Запрос отклонён", "Родитель отклонил ваш запрос"},
		pushTest:                              {"PinguinGuard", "Уведомления работают"},
	},
}

func textFor(lang, key string) pushText {
	if texts, ok := pushTexts[lang]; ok {
		if t, ok := texts[key]; ok {
			return t
		}
	}
	return pushTexts["en"][key]
}

// NotificationService sends FCM pushes about unblock requests: to the parent
// when a child asks, to the child when the parent answers.
type NotificationService struct {
	sender     MessageSender
	parentRepo repositories.ParentRepository
	childRepo  repositories.ChildRepository
	logger     *log.Logger
}

func NewNotificationService(sender MessageSender, parentRepo repositories.ParentRepository, childRepo repositories.ChildRepository) *NotificationService {
	return &NotificationService{
		sender:     sender,
		parentRepo: parentRepo,
		childRepo:  childRepo,
		logger:     logger.With("fcm"),
	}
}

func (s *NotificationService) NotifyUnblockRequested(ctx context.Context, request models.UnblockRequest) error {
	child, err := s.childRepo.FindByFirebaseUID(ctx, request.ChildID)
	if err != nil {
		return fmt.Errorf("child not found: %w", err)
	}
	if child.ParentUID == "" {
		return nil
	}
	parent, err := s.parentRepo.FindByFirebaseUID(ctx, child.ParentUID)
	if err != nil {
		return fmt.Errorf("parent not found: %w", err)
	}

	text := textFor(parent.Lang, interfaces.EventUnblockRequestCreated)
	name := child.Name
	if name == "" {
		name = child.FirebaseUID
	}
	data := map[string]string{
		"type":       interfaces.EventUnblockRequestCreated,
		"request_id": request.ID,
		"child_uid":  request.ChildID,
	}
	return s.send(ctx, parent.DeviceToken, text.title, fmt.Sprintf(text.body, name, request.Reason), data)
}

func (s *NotificationService) NotifyUnblockResolved(ctx context.Context, request models.UnblockRequest) error {
	child, err := s.childRepo.FindByFirebaseUID(ctx, request.ChildID)
	if err != nil {
		return fmt.Errorf("child not found: %w", err)
	}

	text := textFor(child.Lang, string(request.Status))
	body := text.body
	if request.ParentResponse != nil {
		body = body + ": " + *request.ParentResponse
	}
	data := map[string]string{
		"type":       interfaces.EventUnblockRequestResponded,
		"request_id": request.ID,
		"status":     string(request.Status),
	}
	return s.send(ctx, child.DeviceToken, text.title, body, data)
}

// SendTest pushes a fixed message to the caller's own device.
func (s *NotificationService) SendTest(ctx context.Context, uid, userType string) (string, error) {
	var token, lang string
	switch userType {
	case "parent":
		parent, err := s.parentRepo.FindByFirebaseUID(ctx, uid)
		if err != nil {
			return "", err
		}
		token, lang = parent.DeviceToken, parent.Lang
	case "child":
		child, err := s.childRepo.FindByFirebaseUID(ctx, uid)
		if err != nil {
			return "", err
		}
		token, lang = child.DeviceToken, child.Lang
	default:
		return "", fmt.Errorf("unknown user type %q", userType)
	}
	if token == "" {
		return "", fmt.Errorf("device token of %s: %w", uid, models.ErrNotFound)
	}

	text := textFor(lang, pushTest)
	message := &messaging.Message{
		Notification: &messaging.Notification{Title: text.title, Body: text.body},
		Data:         map[string]string{"type": pushTest},
		Token:        token,
	}
	id, err := s.sender.Send(ctx, message)
	if err != nil {
		return "", err
	}
	s.logger.Info("test push sent", "uid", uid, "token", maskToken(token), "id", id)
	return id, nil
}

// maskToken keeps device tokens out of the logs.
func maskToken(token string) string {
	if len(token) <= 10 {
		return "***"
	}
	return token[:5] + "..." + token[len(token)-5:]
}

// send skips devices that never registered a token.
func (s *NotificationService) send(ctx context.Context, deviceToken, title, body string, data map[string]string) error {
	if deviceToken == "" {
		s.logger.Debug("no device token, push skipped", "title", title)
		return nil
	}

	message := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: deviceToken,
	}
	id, err := s.sender.Send(ctx, message)
	if err != nil {
		s.logger.Error("push failed", "title", title, "error", err)
		return err
	}
	s.logger.Debug("push sent", "id", id, "title", title)
	return nil
}

// NoopNotifier is wired when no Firebase credentials are configured.
type NoopNotifier struct{}

func (NoopNotifier) NotifyUnblockRequested(ctx context.Context, request models.UnblockRequest) error {
	return nil
}

func (NoopNotifier) NotifyUnblockResolved(ctx context.Context, request models.UnblockRequest) error {
	return nil
}
