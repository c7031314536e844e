package entity

import (
	"time"
)

type Role string

const (
	RoleUser            Role = "USER"
	RoleHost            Role = "HOST"
	RoleAgent           Role = "AGENT"
	RoleBroker          Role = "BROKER"
	RolePropertyManager Role = "PROPERTY_MANAGER"
	RoleServiceProvider Role = "SERVICE_PROVIDER"
	RoleAdmin           Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleHost, RoleAgent, RoleBroker, RolePropertyManager, RoleServiceProvider, RoleAdmin:
		return true
	}
	return false
}

type VerificationStatus string

const (
	VerificationUnverified VerificationStatus = "UNVERIFIED"
	VerificationPending    VerificationStatus = "PENDING"
	VerificationVerified   VerificationStatus = "VERIFIED"
	VerificationRejected   VerificationStatus = "REJECTED"
	VerificationSuspended  VerificationStatus = "SUSPENDED"
	VerificationExpired    VerificationStatus = "EXPIRED"
)

const (
	OnlineStatusOnline  = "online"
	OnlineStatusOffline = "offline"
)

type User struct {
	ID           string `json:"id" firestore:"id"`
	Name         string `json:"name" firestore:"name"`
	Email        string `json:"email" firestore:"email"`
	PasswordHash string `json:"-" firestore:"passwordHash,omitempty"`
	Image        string `json:"image,omitempty" firestore:"image,omitempty"`
	Phone        string `json:"phone,omitempty" firestore:"phone,omitempty"`
	Bio          string `json:"bio,omitempty" firestore:"bio,omitempty"`

	Role               Role               `json:"role" firestore:"role"`
	VerificationStatus VerificationStatus `json:"verification_status" firestore:"verificationStatus"`

	OnlineStatus string    `json:"online_status" firestore:"onlineStatus"`
	LastSeen     time.Time `json:"last_seen" firestore:"lastSeen"`

	PostCount      int `json:"post_count" firestore:"postCount"`
	FollowerCount  int `json:"follower_count" firestore:"followerCount"`
	FollowingCount int `json:"following_count" firestore:"followingCount"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// UserSummary is the public projection embedded in other resources.
type UserSummary struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Email              string             `json:"email,omitempty"`
	Image              string             `json:"image,omitempty"`
	VerificationStatus VerificationStatus `json:"verification_status,omitempty"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{
		ID:                 u.ID,
		Name:               u.Name,
		Email:              u.Email,
		Image:              u.Image,
		VerificationStatus: u.VerificationStatus,
	}
}
