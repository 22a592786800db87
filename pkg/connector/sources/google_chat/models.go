package googlechat

import "time"

// Space is a Chat space, group chat or direct message
type Space struct {
	Name                string    `json:"name"`
	DisplayName         string    `json:"displayName,omitempty"`
	SpaceType           string    `json:"spaceType,omitempty"`
	ThreadingState      string    `json:"spaceThreadingState,omitempty"`
	ExternalUserAllowed bool      `json:"externalUserAllowed"`
	CreateTime          time.Time `json:"createTime,omitempty"`
	LastActiveTime      time.Time `json:"lastActiveTime,omitempty"`
}

func (s *Space) EntityID() string { return s.Name }

// User identifies a human or app
type User struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Type        string `json:"type,omitempty"`
}

// Thread groups replies
type Thread struct {
	Name      string `json:"name"`
	ThreadKey string `json:"threadKey,omitempty"`
}

// Message is a message in a space
type Message struct {
	Name           string    `json:"name"`
	Sender         *User     `json:"sender,omitempty"`
	Text           string    `json:"text,omitempty"`
	FormattedText  string    `json:"formattedText,omitempty"`
	Thread         *Thread   `json:"thread,omitempty"`
	ThreadReply    bool      `json:"threadReply"`
	CreateTime     time.Time `json:"createTime,omitempty"`
	LastUpdateTime time.Time `json:"lastUpdateTime,omitempty"`
}

func (m *Message) EntityID() string { return m.Name }

// Membership links a member to a space
type Membership struct {
	Name       string    `json:"name"`
	State      string    `json:"state,omitempty"`
	Role       string    `json:"role,omitempty"`
	Member     *User     `json:"member,omitempty"`
	CreateTime time.Time `json:"createTime,omitempty"`
}

func (m *Membership) EntityID() string { return m.Name }

// Emoji is a unicode or custom emoji
type Emoji struct {
	Unicode string `json:"unicode,omitempty"`
}

// Reaction is an emoji reaction on a message
type Reaction struct {
	Name  string `json:"name"`
	User  *User  `json:"user,omitempty"`
	Emoji *Emoji `json:"emoji,omitempty"`
}

func (r *Reaction) EntityID() string { return r.Name }
