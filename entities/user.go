package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Username  string    `gorm:"size:150;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:254;uniqueIndex" json:"email"`
	FirstName string    `gorm:"size:150" json:"first_name"`
	LastName  string    `gorm:"size:150" json:"last_name"`
	Password  string    `json:"-"`
	Role      Role      `gorm:"size:16;default:user" json:"role"`
	Verified  bool      `json:"verified"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID"`
	Timestamp
}

type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SubscriberID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_subscriber_author" json:"subscriber_id"`
	AuthorID     uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_subscriber_author" json:"author_id"`

	Subscriber *User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
	Author     *User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Timestamp
}
