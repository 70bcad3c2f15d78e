package domain

var (
	MessageSuccessSubscribe        = "subscribed successfully"
	MessageSuccessUnsubscribe      = "unsubscribed successfully"
	MessageSuccessGetSubscriptions = "success get subscriptions"

	MessageFailedSubscribe        = "failed to subscribe"
	MessageFailedUnsubscribe      = "failed to unsubscribe"
	MessageFailedGetSubscriptions = "failed to get subscriptions"

	ErrSelfSubscribe     = ValidationError{Field: "author", Message: "cannot subscribe to self"}
	ErrAlreadySubscribed = ValidationError{Field: "author", Message: "already subscribed"}
	ErrNotSubscribed     = ValidationError{Field: "author", Message: "not subscribed"}
)

type (
	// ProfileWithRecipes is the view returned when subscribing and when
	// listing subscriptions: the author's profile plus a capped page of
	// their recipes and the uncapped total.
	ProfileWithRecipes struct {
		UserProfile
		Recipes []RecipeSummary `json:"recipes"`
	}

	SubscriptionListResponse struct {
		Results []ProfileWithRecipes `json:"results"`
		Total   int64                `json:"total"`
	}
)
