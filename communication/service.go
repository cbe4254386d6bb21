package communication

import (
	"context"
	"fmt"

	"github.com/jrsteele09/squadhub/apiclient"
)

const (
	conversationsPath = "communication/conversations/"
	announcementsPath = "communication/announcements/"
)

type Service struct {
	client *apiclient.Client
}

func NewService(client *apiclient.Client) *Service {
	return &Service{client: client}
}

// ConversationInput creates a group chat.
type ConversationInput struct {
	Name         *string `json:"name,omitempty"`
	IsGroupChat  bool    `json:"is_group_chat"`
	Participants []int64 `json:"participants"`
}

type AnnouncementInput struct {
	Team     int64  `json:"team"`
	Title    string `json:"title"`
	Content  string `json:"content"`
	IsUrgent bool   `json:"is_urgent"`
}

func (s *Service) ListConversations(ctx context.Context) ([]Conversation, error) {
	return apiclient.GetList[Conversation](ctx, s.client, conversationsPath, nil)
}

func (s *Service) CreateConversation(ctx context.Context, in ConversationInput) (*Conversation, error) {
	return s.postConversation(ctx, conversationsPath, in)
}

// StartDM returns the direct conversation with userID, creating it if needed.
func (s *Service) StartDM(ctx context.Context, userID int64) (*Conversation, error) {
	return s.postConversation(ctx, conversationsPath+"start_dm/", map[string]int64{"user_id": userID})
}

func (s *Service) AddParticipants(ctx context.Context, conversationID int64, participantIDs []int64) (*Conversation, error) {
	body := map[string][]int64{"participant_ids": participantIDs}
	return s.postConversation(ctx, conversationPath(conversationID)+"add_participants/", body)
}

func (s *Service) ListMessages(ctx context.Context, conversationID int64) ([]Message, error) {
	return apiclient.GetList[Message](ctx, s.client, conversationPath(conversationID)+"messages/", nil)
}

func (s *Service) SendMessage(ctx context.Context, conversationID int64, content string) (*Message, error) {
	var m Message
	body := map[string]string{"content": content}
	if err := s.client.Post(ctx, conversationPath(conversationID)+"messages/", body, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Service) ListAnnouncements(ctx context.Context) ([]Announcement, error) {
	return apiclient.GetList[Announcement](ctx, s.client, announcementsPath, nil)
}

func (s *Service) CreateAnnouncement(ctx context.Context, in AnnouncementInput) (*Announcement, error) {
	var a Announcement
	if err := s.client.Post(ctx, announcementsPath, in, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) MarkAnnouncementRead(ctx context.Context, id int64) (*Announcement, error) {
	var a Announcement
	if err := s.client.Post(ctx, fmt.Sprintf("%s%d/read/", announcementsPath, id), nil, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Service) postConversation(ctx context.Context, path string, body any) (*Conversation, error) {
	var c Conversation
	if err := s.client.Post(ctx, path, body, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func conversationPath(id int64) string {
	return fmt.Sprintf("%s%d/", conversationsPath, id)
}
