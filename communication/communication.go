package communication

import (
	"github.com/jrsteele09/squadhub/internal/utils"
	"github.com/jrsteele09/squadhub/users"
)

type Message struct {
	ID           int64  `json:"id"`
	Conversation int64  `json:"conversation"`
	Sender       int64  `json:"sender"`
	SenderName   string `json:"sender_name"`
	SenderEmail  string `json:"sender_email"`
	Content      string `json:"content"`
	Timestamp    string `json:"timestamp"`
}

type Conversation struct {
	ID                  int64        `json:"id"`
	Name                *string      `json:"name"`
	IsGroupChat         bool         `json:"is_group_chat"`
	Participants        []int64      `json:"participants"`
	ParticipantsDetails []users.User `json:"participants_details"`
	CreatedAt           string       `json:"created_at"`
	UpdatedAt           string       `json:"updated_at"`
	LastMessage         *Message     `json:"last_message"`
}

// Title is the group name, or for a direct message the other
// participants' names as seen by viewerID.
func (c *Conversation) Title(viewerID int64) string {
	if name := utils.Value(c.Name); name != "" {
		return name
	}
	title := ""
	for i := range c.ParticipantsDetails {
		p := &c.ParticipantsDetails[i]
		if p.ID == viewerID {
			continue
		}
		if title != "" {
			title += ", "
		}
		title += p.FullName()
	}
	if title == "" {
		return "Conversation"
	}
	return title
}

type Announcement struct {
	ID          int64   `json:"id"`
	Sender      *int64  `json:"sender"`
	SenderName  string  `json:"sender_name"`
	Team        int64   `json:"team"`
	TeamName    string  `json:"team_name"`
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Timestamp   string  `json:"timestamp"`
	IsUrgent    bool    `json:"is_urgent"`
	ReadBy      []int64 `json:"read_by"`
	ReadByCount int     `json:"read_by_count"`
}

func (a *Announcement) ReadByUser(userID int64) bool {
	for _, id := range a.ReadBy {
		if id == userID {
			return true
		}
	}
	return false
}
