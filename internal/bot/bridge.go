package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"telegram-crm-backend/internal/models"
)

const (
	greetingText = "Hi! I manage projects for this group.\n\n" +
		"Create a new topic and I will open a CRM project for it with a button to access it."
	failureText   = "Something went wrong while creating a project for this topic. Please try again later."
	openCRMButton = "Open CRM"
)

// TopicKey is the external key of the project bound to a forum topic.
func TopicKey(chatID, topicID int64) string {
	return strconv.FormatInt(chatID, 10) + "_" + strconv.FormatInt(topicID, 10)
}

// Projects is the part of the project service the bridge needs.
type Projects interface {
	GetOrCreate(ctx context.Context, title, externalKey string) (*models.Project, bool, error)
}

type Bridge struct {
	projects    Projects
	webViewURL  string
	botUsername string
	logger      *slog.Logger
}

// NewBridge returns a bridge that links created topics to projects.
// botUsername identifies the bot in new_chat_members; empty disables the greeting.
func NewBridge(projects Projects, webViewURL, botUsername string, logger *slog.Logger) *Bridge {
	return &Bridge{
		projects:    projects,
		webViewURL:  webViewURL,
		botUsername: strings.TrimPrefix(botUsername, "@"),
		logger:      logger,
	}
}

// Handle reacts to an update. It returns nil when nothing should be sent.
func (b *Bridge) Handle(ctx context.Context, u Update) *Reply {
	msg := u.Message
	if msg == nil {
		return nil
	}
	switch {
	case msg.ForumTopicCreated != nil:
		return b.handleTopicCreated(ctx, msg)
	case b.wasAdded(msg.NewChatMembers):
		return &Reply{Method: "sendMessage", ChatID: msg.Chat.ID, Text: greetingText}
	}
	return nil
}

func (b *Bridge) handleTopicCreated(ctx context.Context, msg *Message) *Reply {
	topicID := msg.MessageThreadID
	name := strings.TrimSpace(msg.ForumTopicCreated.Name)
	if name == "" {
		name = fmt.Sprintf("Topic %d", topicID)
	}
	key := TopicKey(msg.Chat.ID, topicID)

	project, created, err := b.projects.GetOrCreate(ctx, name, key)
	if err != nil {
		b.logger.Error("failed to link topic to project", "chat_id", key, "error", err)
		return &Reply{
			Method:          "sendMessage",
			ChatID:          msg.Chat.ID,
			MessageThreadID: topicID,
			Text:            failureText,
		}
	}

	text := fmt.Sprintf(`Project "%s" already exists.`, project.Title)
	if created {
		text = fmt.Sprintf(`Project created: "%s"`, name)
	}
	b.logger.Info("topic linked to project", "chat_id", key, "project_id", project.ID, "created", created)

	return &Reply{
		Method:          "sendMessage",
		ChatID:          msg.Chat.ID,
		MessageThreadID: topicID,
		Text:            text,
		ReplyMarkup: &InlineKeyboardMarkup{
			InlineKeyboard: [][]InlineKeyboardButton{{
				{Text: openCRMButton, URL: b.crmURL(project.ID, name)},
			}},
		},
	}
}

func (b *Bridge) crmURL(projectID int64, topicName string) string {
	q := url.Values{}
	q.Set("projectId", strconv.FormatInt(projectID, 10))
	q.Set("topicName", topicName)
	sep := "?"
	if strings.Contains(b.webViewURL, "?") {
		sep = "&"
	}
	return b.webViewURL + sep + q.Encode()
}

func (b *Bridge) wasAdded(members []User) bool {
	if b.botUsername == "" {
		return false
	}
	for _, m := range members {
		if m.IsBot && strings.EqualFold(m.Username, b.botUsername) {
			return true
		}
	}
	return false
}
