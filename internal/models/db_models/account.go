package db_models

// Subscription categories. "stripe" is the default paid path; "free" and
// "group" are admin-granted; "pending" never completed setup; "canceled"
// revoked their own subscription.
const (
	SubTypeStripe   = "stripe"
	SubTypeFree     = "free"
	SubTypeGroup    = "group"
	SubTypePending  = "pending"
	SubTypeCanceled = "canceled"
)

// Lifecycle status tags shown on the admin page.
const (
	StatusActive   = "Active"
	StatusInactive = "Inactive"
	StatusPending  = "Pending"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Account struct {
	BaseModel
	Email        string `gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string `gorm:"size:256;not null"`
	Role         string `gorm:"size:20;default:user"`

	IsSubscribed     bool   `gorm:"default:false"`
	SubscriptionType string `gorm:"size:50;default:stripe"`
	StripeCustomerID string `gorm:"size:120;index"`
	GroupID          string `gorm:"size:120"`
	Status           string `gorm:"size:20;default:Active"`

	Sessions []UserSession `gorm:"foreignKey:AccountID"`
}
