package msteams

import "time"

// Team is a Microsoft Teams team
type Team struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	Visibility  string `json:"visibility,omitempty"`
	IsArchived  bool   `json:"isArchived"`
	WebURL      string `json:"webUrl,omitempty"`
}

func (t *Team) EntityID() string { return t.ID }

// Channel is a channel within a team
type Channel struct {
	ID              string    `json:"id"`
	DisplayName     string    `json:"displayName"`
	Description     string    `json:"description,omitempty"`
	Email           string    `json:"email,omitempty"`
	MembershipType  string    `json:"membershipType,omitempty"`
	WebURL          string    `json:"webUrl,omitempty"`
	CreatedDateTime time.Time `json:"createdDateTime,omitempty"`
}

func (c *Channel) EntityID() string { return c.ID }

// Identity is a user or application reference
type Identity struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName,omitempty"`
}

// IdentitySet names who performed an action
type IdentitySet struct {
	User        *Identity `json:"user,omitempty"`
	Application *Identity `json:"application,omitempty"`
}

// ItemBody is message content
type ItemBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// ChatMessage is a channel or chat message
type ChatMessage struct {
	ID                   string       `json:"id"`
	ReplyToID            string       `json:"replyToId,omitempty"`
	MessageType          string       `json:"messageType,omitempty"`
	Subject              string       `json:"subject,omitempty"`
	Importance           string       `json:"importance,omitempty"`
	From                 *IdentitySet `json:"from,omitempty"`
	Body                 *ItemBody    `json:"body,omitempty"`
	ChatID               string       `json:"chatId,omitempty"`
	CreatedDateTime      time.Time    `json:"createdDateTime,omitempty"`
	LastModifiedDateTime time.Time    `json:"lastModifiedDateTime,omitempty"`
}

func (m *ChatMessage) EntityID() string { return m.ID }

// Member is a conversation member of a team, channel or chat
type Member struct {
	ID          string   `json:"id"`
	DisplayName string   `json:"displayName,omitempty"`
	UserID      string   `json:"userId,omitempty"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles,omitempty"`
}

func (m *Member) EntityID() string { return m.ID }

// Chat is a one-on-one, group or meeting chat
type Chat struct {
	ID                  string    `json:"id"`
	Topic               string    `json:"topic,omitempty"`
	ChatType            string    `json:"chatType,omitempty"`
	WebURL              string    `json:"webUrl,omitempty"`
	CreatedDateTime     time.Time `json:"createdDateTime,omitempty"`
	LastUpdatedDateTime time.Time `json:"lastUpdatedDateTime,omitempty"`
}

func (c *Chat) EntityID() string { return c.ID }

// User is a directory user
type User struct {
	ID                string   `json:"id"`
	DisplayName       string   `json:"displayName"`
	UserPrincipalName string   `json:"userPrincipalName,omitempty"`
	Mail              string   `json:"mail,omitempty"`
	JobTitle          string   `json:"jobTitle,omitempty"`
	BusinessPhones    []string `json:"businessPhones,omitempty"`
}

func (u *User) EntityID() string { return u.ID }
