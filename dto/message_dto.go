package dto

// MessageDTO is a Data Transfer Object for the message response
type MessageDTO struct {
	Text     string `json:"content"`
	PubDate  int64  `json:"pub_date"`
	Username string `json:"user"`
}

// FollowsDTO is the response shape of the follower listing
type FollowsDTO struct {
	Follows []string `json:"follows"`
}
